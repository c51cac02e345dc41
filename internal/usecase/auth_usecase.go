package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sleepdiary/config"
	"sleepdiary/internal/converter"
	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/domain/entity"
	"sleepdiary/internal/domain/repository"
	"sleepdiary/internal/service"
	"sleepdiary/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidLoginToken  = errors.New("invalid or expired sign-in link")
	ErrInvalidOAuthState  = errors.New("invalid or expired OAuth state")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	// Login authenticates a password credential. Only the seeded demo
	// identities carry a password; anything else is rejected.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Register stashes the registration intent and sends a magic link.
	Register(ctx context.Context, req *dto.RegisterRequest) error
	// RequestMagicLink sends a one-time sign-in link to the email.
	RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) error
	// VerifyMagicLink completes magic-link sign-in: token to verified
	// email, provisioning, session issuance.
	VerifyMagicLink(ctx context.Context, req *dto.MagicLinkVerifyRequest) (*dto.TokenResponse, error)
	// GoogleAuthURL starts the OAuth flow.
	GoogleAuthURL(ctx context.Context) (string, error)
	// GoogleCallback finishes the OAuth flow and signs the user in.
	GoogleCallback(ctx context.Context, state, code string) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshTokenID string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	appConfig          config.AppConfig
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	registrationStore  service.RegistrationStore
	loginTokenStore    service.LoginTokenStore
	mailer             service.Mailer
	googleOAuth        service.GoogleOAuth
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	redisClient        *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appConfig config.AppConfig,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	registrationStore service.RegistrationStore,
	loginTokenStore service.LoginTokenStore,
	mailer service.Mailer,
	googleOAuth service.GoogleOAuth,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		appConfig:          appConfig,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		registrationStore:  registrationStore,
		loginTokenStore:    loginTokenStore,
		mailer:             mailer,
		googleOAuth:        googleOAuth,
		auditService:       auditService,
		jwtService:         jwtService,
		redisClient:        redisClient,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	// Only the seeded demo identities carry a password hash. Everyone else
	// signs in via magic link or OAuth.
	if user == nil || user.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Backfill a missing role profile before issuing the session; failures
	// here never block the sign-in.
	u.ensureProfile(ctx, user)

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) error {
	reg := &service.PendingRegistration{
		Name:      req.Name,
		Role:      entity.Role(req.Role),
		Timestamp: time.Now().UnixMilli(),
	}

	if err := u.registrationStore.Stash(ctx, req.Email, reg); err != nil {
		return err
	}

	return u.sendMagicLink(ctx, req.Email)
}

func (u *authUsecase) RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) error {
	return u.sendMagicLink(ctx, req.Email)
}

func (u *authUsecase) sendMagicLink(ctx context.Context, email string) error {
	token, err := u.loginTokenStore.IssueLoginToken(ctx, email)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/v1/auth/magic-link/verify?token=%s", u.appConfig.BaseURL, token)
	if err := u.mailer.SendMagicLink(ctx, email, link); err != nil {
		// An undeliverable token is useless; discard it so the failed
		// request leaves nothing behind.
		if delErr := u.loginTokenStore.RemoveLoginToken(ctx, token); delErr != nil {
			u.log.Warnf("Failed to remove undelivered login token: %+v", delErr)
		}
		return err
	}

	return nil
}

func (u *authUsecase) VerifyMagicLink(ctx context.Context, req *dto.MagicLinkVerifyRequest) (*dto.TokenResponse, error) {
	email, err := u.loginTokenStore.ConsumeLoginToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, ErrInvalidLoginToken
	}

	user, err := u.resolveIdentity(ctx, &service.VerifiedProfile{Email: email})
	if err != nil {
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GoogleAuthURL(ctx context.Context) (string, error) {
	state, err := u.loginTokenStore.IssueOAuthState(ctx)
	if err != nil {
		return "", err
	}
	return u.googleOAuth.AuthCodeURL(state), nil
}

func (u *authUsecase) GoogleCallback(ctx context.Context, state, code string) (*dto.TokenResponse, error) {
	valid, err := u.loginTokenStore.ConsumeOAuthState(ctx, state)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidOAuthState
	}

	profile, err := u.googleOAuth.FetchProfile(ctx, code)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := u.resolveIdentity(ctx, profile)
	if err != nil {
		return nil, err
	}

	return u.issueTokens(ctx, user)
}

// resolveIdentity turns a provider-verified profile into a User row,
// provisioning the user and its role profile on first sign-in.
func (u *authUsecase) resolveIdentity(ctx context.Context, profile *service.VerifiedProfile) (*entity.User, error) {
	user, err := u.userRepo.FindByEmailWithProfiles(ctx, u.db, profile.Email)
	if err != nil {
		u.log.Warnf("Failed to look up user by email: %+v", err)
		return nil, err
	}

	if user == nil {
		user, err = u.provisionUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	u.ensureProfile(ctx, user)

	return user, nil
}

// provisionUser creates the User row for a first sign-in. Role and name come
// from the pending registration when one exists, otherwise from the provider
// profile with PATIENT as the default role.
func (u *authUsecase) provisionUser(ctx context.Context, profile *service.VerifiedProfile) (*entity.User, error) {
	role := entity.RolePatient
	if profile.Role.IsValid() {
		role = profile.Role
	}
	name := entity.DisplayNameFor(profile.Name, profile.Email)

	reg, err := u.registrationStore.Consume(ctx, profile.Email)
	if err != nil {
		// A broken hand-off store must not block sign-in; fall back to
		// the defaults.
		u.log.Warnf("Failed to consume pending registration: %+v", err)
		reg = nil
	}
	if reg != nil {
		if reg.Role.IsValid() {
			role = reg.Role
		}
		if reg.Name != "" {
			name = reg.Name
		}
	}

	user := &entity.User{
		Email: profile.Email,
		Name:  name,
		Role:  role,
		Image: profile.Picture,
	}

	if err := u.userRepo.Create(ctx, u.db, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			// A concurrent first sign-in won the race; use its row.
			existing, findErr := u.userRepo.FindByEmailWithProfiles(ctx, u.db, profile.Email)
			if findErr != nil {
				return nil, findErr
			}
			if existing == nil {
				return nil, err
			}
			return existing, nil
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if auditErr := u.auditService.LogCreate(ctx, u.db, &user.ID, entity.AuditActionUserProvision, "user", user.ID.String(), converter.UserToResponse(user)); auditErr != nil {
		u.log.Warnf("Failed to audit user provisioning: %+v", auditErr)
	}

	return user, nil
}

// ensureProfile backfills the role profile when missing, covering a prior
// partial failure where the user row was created but the profile was not.
// Errors are logged and swallowed: identity resolution outranks profile
// completeness, which self-heals on a later sign-in.
func (u *authUsecase) ensureProfile(ctx context.Context, user *entity.User) {
	switch user.Role {
	case entity.RolePatient:
		profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to check patient profile: %+v", err)
			return
		}
		if profile != nil {
			return
		}
		if err := u.patientProfileRepo.Create(ctx, u.db, &entity.PatientProfile{UserID: user.ID}); err != nil {
			u.log.Warnf("Failed to backfill patient profile: %+v", err)
		}
	case entity.RoleDoctor:
		profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, user.ID)
		if err != nil {
			u.log.Warnf("Failed to check doctor profile: %+v", err)
			return
		}
		if profile != nil {
			return
		}
		if err := u.doctorProfileRepo.Create(ctx, u.db, &entity.DoctorProfile{UserID: user.ID}); err != nil {
			u.log.Warnf("Failed to backfill doctor profile: %+v", err)
		}
	}
}

// issueTokens mints the access/refresh pair with the user's role embedded
// and records both token IDs in Redis.
func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", user.ID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", user.ID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Re-mint from the embedded claims; the role is reused without a
	// storage lookup.
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKeyNew := fmt.Sprintf("access_token:%s:%s", claims.UserID.String(), accessTokenID)
	refreshKeyNew := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKeyNew, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.redisClient.Set(ctx, refreshKeyNew, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshTokenID string) error {
	accessPattern := fmt.Sprintf("access_token:*:%s", accessTokenID)
	refreshPattern := fmt.Sprintf("refresh_token:*:%s", refreshTokenID)

	accessKeys, err := u.redisClient.Keys(ctx, accessPattern).Result()
	if err != nil {
		u.log.Warnf("Failed to get access token keys: %+v", err)
		return err
	}
	if len(accessKeys) > 0 {
		if err := u.redisClient.Del(ctx, accessKeys...).Err(); err != nil {
			u.log.Warnf("Failed to delete access token: %+v", err)
			return err
		}
	}

	refreshKeys, err := u.redisClient.Keys(ctx, refreshPattern).Result()
	if err != nil {
		u.log.Warnf("Failed to get refresh token keys: %+v", err)
		return err
	}
	if len(refreshKeys) > 0 {
		if err := u.redisClient.Del(ctx, refreshKeys...).Err(); err != nil {
			u.log.Warnf("Failed to delete refresh token: %+v", err)
			return err
		}
	}

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
