package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisLoginTokenKeyPrefix keys one-time magic-link tokens.
	RedisLoginTokenKeyPrefix = "login_token:"
	// RedisOAuthStateKeyPrefix keys OAuth state nonces.
	RedisOAuthStateKeyPrefix = "oauth_state:"

	loginTokenTTL = 24 * time.Hour
	oauthStateTTL = 10 * time.Minute
)

// LoginTokenStore issues and redeems the one-time tokens behind magic-link
// sign-in, plus the state nonces of the OAuth flow. Every token is
// consume-once: redeeming deletes it.
type LoginTokenStore interface {
	// IssueLoginToken creates a one-time token bound to the email.
	IssueLoginToken(ctx context.Context, email string) (string, error)
	// ConsumeLoginToken returns the email bound to the token and deletes
	// it. Returns ("", nil) for unknown or expired tokens.
	ConsumeLoginToken(ctx context.Context, token string) (string, error)
	// RemoveLoginToken discards a token that was issued but never delivered.
	RemoveLoginToken(ctx context.Context, token string) error

	IssueOAuthState(ctx context.Context) (string, error)
	// ConsumeOAuthState reports whether the state was issued by us.
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

type redisLoginTokenStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewLoginTokenStore(redisClient *redis.Client, log *logrus.Logger) LoginTokenStore {
	return &redisLoginTokenStore{
		redisClient: redisClient,
		log:         log,
	}
}

func (s *redisLoginTokenStore) IssueLoginToken(ctx context.Context, email string) (string, error) {
	token := uuid.New().String()
	key := RedisLoginTokenKeyPrefix + token
	if err := s.redisClient.Set(ctx, key, email, loginTokenTTL).Err(); err != nil {
		s.log.Warnf("Failed to store login token: %+v", err)
		return "", err
	}
	return token, nil
}

func (s *redisLoginTokenStore) ConsumeLoginToken(ctx context.Context, token string) (string, error) {
	key := RedisLoginTokenKeyPrefix + token
	email, err := s.redisClient.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		s.log.Warnf("Failed to read login token: %+v", err)
		return "", err
	}
	return email, nil
}

func (s *redisLoginTokenStore) RemoveLoginToken(ctx context.Context, token string) error {
	return s.redisClient.Del(ctx, RedisLoginTokenKeyPrefix+token).Err()
}

func (s *redisLoginTokenStore) IssueOAuthState(ctx context.Context) (string, error) {
	state := uuid.New().String()
	key := RedisOAuthStateKeyPrefix + state
	if err := s.redisClient.Set(ctx, key, "valid", oauthStateTTL).Err(); err != nil {
		s.log.Warnf("Failed to store OAuth state: %+v", err)
		return "", err
	}
	return state, nil
}

func (s *redisLoginTokenStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	key := RedisOAuthStateKeyPrefix + state
	_, err := s.redisClient.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		s.log.Warnf("Failed to read OAuth state: %+v", err)
		return false, err
	}
	return true, nil
}
