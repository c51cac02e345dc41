package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sleepdiary/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisRegistrationKeyPrefix keys pending registrations per email.
	RedisRegistrationKeyPrefix = "registration:"

	// registrationTTL is how long a pending registration stays consumable.
	registrationTTL = 24 * time.Hour
)

// PendingRegistration correlates a not-yet-authenticated email with the
// role and name chosen on the registration form. It is consumed exactly
// once, on the first successful sign-in for that email.
type PendingRegistration struct {
	Name      string      `json:"name"`
	Role      entity.Role `json:"role"`
	Timestamp int64       `json:"timestamp"`
}

// RegistrationStore is the server-side hand-off between the registration
// endpoint and the sign-in provisioning step.
type RegistrationStore interface {
	Stash(ctx context.Context, email string, reg *PendingRegistration) error
	// Consume returns the pending registration for the email and deletes
	// it. Returns (nil, nil) when no record exists or it has expired.
	Consume(ctx context.Context, email string) (*PendingRegistration, error)
}

type redisRegistrationStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewRegistrationStore(redisClient *redis.Client, log *logrus.Logger) RegistrationStore {
	return &redisRegistrationStore{
		redisClient: redisClient,
		log:         log,
	}
}

func (s *redisRegistrationStore) Stash(ctx context.Context, email string, reg *PendingRegistration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	key := RedisRegistrationKeyPrefix + email
	if err := s.redisClient.Set(ctx, key, payload, registrationTTL).Err(); err != nil {
		s.log.Warnf("Failed to stash pending registration: %+v", err)
		return err
	}

	return nil
}

func (s *redisRegistrationStore) Consume(ctx context.Context, email string) (*PendingRegistration, error) {
	key := RedisRegistrationKeyPrefix + email

	payload, err := s.redisClient.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.log.Warnf("Failed to read pending registration: %+v", err)
		return nil, err
	}

	reg := decodePendingRegistration([]byte(payload), time.Now())
	if reg == nil {
		s.log.Warnf("Discarded stale or undecodable pending registration for %s", email)
	}
	return reg, nil
}

// decodePendingRegistration parses a stashed payload and applies the age
// cutoff. The key TTL already enforces expiry; the timestamp check covers
// stores configured with a longer retention. Returns nil for undecodable
// payloads and for records older than the registration TTL.
func decodePendingRegistration(payload []byte, now time.Time) *PendingRegistration {
	var reg PendingRegistration
	if err := json.Unmarshal(payload, &reg); err != nil {
		return nil
	}

	if reg.Timestamp > 0 && now.Sub(time.UnixMilli(reg.Timestamp)) > registrationTTL {
		return nil
	}

	return &reg
}
