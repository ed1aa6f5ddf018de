package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citisolve/complaint-service/internal/domain"
)

// ErrNotFound signals a missing or expired session record.
var ErrNotFound = errors.New("session not found")

// Record is the server-side identity snapshot captured at login/signup.
// Ward and Department mirror the user row at that moment; they are not
// re-fetched per request.
type Record struct {
	UserID     string           `json:"user_id"`
	Role       domain.Role      `json:"role"`
	Email      string           `json:"email"`
	FullName   string           `json:"fullname"`
	Ward       *string          `json:"ward,omitempty"`
	Department *domain.Category `json:"department,omitempty"`
	// OTPHash gates promotion of a pending record to an active session.
	OTPHash string `json:"otp_hash,omitempty"`
}

// Store maps opaque session IDs to identity records. Pending records hold
// identities that have passed credential checks but not yet OTP
// confirmation.
type Store interface {
	SaveActive(ctx context.Context, id string, rec Record, ttl time.Duration) error
	GetActive(ctx context.Context, id string) (*Record, error)
	SavePending(ctx context.Context, id string, rec Record, ttl time.Duration) error
	GetPending(ctx context.Context, id string) (*Record, error)
	DeletePending(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Redis-backed session store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) SaveActive(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	return s.save(ctx, activeKey(id), rec, ttl)
}

func (s *redisStore) GetActive(ctx context.Context, id string) (*Record, error) {
	return s.get(ctx, activeKey(id))
}

func (s *redisStore) SavePending(ctx context.Context, id string, rec Record, ttl time.Duration) error {
	return s.save(ctx, pendingKey(id), rec, ttl)
}

func (s *redisStore) GetPending(ctx context.Context, id string) (*Record, error) {
	return s.get(ctx, pendingKey(id))
}

func (s *redisStore) DeletePending(ctx context.Context, id string) error {
	return s.client.Del(ctx, pendingKey(id)).Err()
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, activeKey(id), pendingKey(id)).Err()
}

func (s *redisStore) save(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *redisStore) get(ctx context.Context, key string) (*Record, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func activeKey(id string) string {
	return "session:active:" + id
}

func pendingKey(id string) string {
	return "session:pending:" + id
}
