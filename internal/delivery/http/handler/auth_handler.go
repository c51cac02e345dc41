package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"sleepdiary/config"
	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/delivery/http/middleware"
	"sleepdiary/internal/usecase"
	"sleepdiary/pkg/jwt"
	"sleepdiary/pkg/response"
	"sleepdiary/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	jwtService  *jwt.JWTService
	appConfig   config.AppConfig
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, jwtService *jwt.JWTService, appConfig config.AppConfig) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		jwtService:  jwtService,
		appConfig:   appConfig,
	}
}

// Login handles password sign-in for the demo identities
// @Summary Login user
// @Description Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			response.Error(w, http.StatusUnauthorized, "Invalid email or password", nil)
		default:
			response.InternalServerError(w, "Failed to login")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Register stashes the registration intent and sends a magic link
// @Summary Register a new user
// @Description Store name/role for the email and send a sign-in link
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.Register(r.Context(), &req); err != nil {
		response.InternalServerError(w, "An error occurred during registration")
		return
	}

	response.Success(w, http.StatusOK, "Registration email sent", nil)
}

// RequestMagicLink sends a one-time sign-in link
// @Summary Request magic link
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.MagicLinkRequest true "Magic Link Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req dto.MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.RequestMagicLink(r.Context(), &req); err != nil {
		response.InternalServerError(w, "Failed to send sign-in link")
		return
	}

	response.Success(w, http.StatusOK, "Sign-in link sent", nil)
}

// VerifyMagicLink completes magic-link sign-in
// @Summary Verify magic link
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/magic-link/verify [get]
func (h *AuthHandler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var req dto.MagicLinkVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		response.Error(w, http.StatusBadRequest, "Token is required", nil)
		return
	}

	tokens, err := h.authUsecase.VerifyMagicLink(r.Context(), &dto.MagicLinkVerifyRequest{Token: token})
	if err != nil {
		switch err {
		case usecase.ErrInvalidLoginToken:
			response.Error(w, http.StatusUnauthorized, "Invalid or expired sign-in link", nil)
		default:
			response.InternalServerError(w, "Failed to verify sign-in link")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// GoogleAuth starts the Google OAuth flow
// @Summary Start Google sign-in
// @Tags Auth
// @Produce json
// @Success 307 {object} nil
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	url, err := h.authUsecase.GoogleAuthURL(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to start Google sign-in")
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the Google OAuth flow
// @Summary Google sign-in callback
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		response.Error(w, http.StatusBadRequest, "state and code are required", nil)
		return
	}

	tokens, err := h.authUsecase.GoogleCallback(r.Context(), state, code)
	if err != nil {
		switch err {
		case usecase.ErrInvalidOAuthState, usecase.ErrInvalidCredentials:
			response.Error(w, http.StatusUnauthorized, "Google sign-in failed", nil)
		default:
			response.InternalServerError(w, "Failed to complete Google sign-in")
		}
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Callback redirects a signed-in caller to the dashboard, or to the sign-in
// page when no valid session is presented.
// @Summary Post-auth redirect
// @Tags Auth
// @Success 302 {object} nil
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	claims := h.sessionClaims(r)
	if claims == nil {
		http.Redirect(w, r, h.appConfig.SignInURL, http.StatusFound)
		return
	}

	// Both roles currently share the same dashboard route.
	http.Redirect(w, r, h.appConfig.DashboardURL, http.StatusFound)
}

// sessionClaims extracts access-token claims from the Authorization header,
// returning nil when absent or invalid.
func (h *AuthHandler) sessionClaims(r *http.Request) *jwt.Claims {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	claims, err := h.jwtService.ValidateToken(parts[1])
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil
	}
	return claims
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Get new access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidToken, usecase.ErrTokenRevoked:
			response.Error(w, http.StatusUnauthorized, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to refresh token")
		}
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout and revoke tokens
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// Get refresh token from request body if provided
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	refreshTokenID := ""
	if req.RefreshToken != "" {
		claims, err := h.jwtService.ValidateToken(req.RefreshToken)
		if err == nil {
			refreshTokenID = claims.TokenID
		}
	}

	if err := h.authUsecase.Logout(r.Context(), tokenID, refreshTokenID); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// GetCurrentUser handles getting current user info
// @Summary Get current user
// @Description Get authenticated user information
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to get user info")
		}
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
