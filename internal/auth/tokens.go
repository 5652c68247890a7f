package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// ErrTokenNotFound indicates an unknown or expired bearer token.
var ErrTokenNotFound = errors.New("auth: token not found")

// TokenStore keeps issued bearer tokens in Redis, mapping each token to the
// actor it identifies.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue stores the actor under a fresh opaque token.
func (s *TokenStore) Issue(ctx context.Context, actor shared.Actor) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("auth: token store not initialised")
	}
	payload, err := json.Marshal(actor)
	if err != nil {
		return "", fmt.Errorf("auth: encode actor: %w", err)
	}
	token := uuid.NewString()
	if err := s.client.Set(ctx, tokenKey(token), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store token: %w", err)
	}
	return token, nil
}

// Resolve returns the actor a token identifies and slides its expiry.
func (s *TokenStore) Resolve(ctx context.Context, token string) (shared.Actor, error) {
	if s == nil || s.client == nil {
		return shared.Actor{}, errors.New("auth: token store not initialised")
	}
	payload, err := s.client.Get(ctx, tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return shared.Actor{}, ErrTokenNotFound
	}
	if err != nil {
		return shared.Actor{}, fmt.Errorf("auth: load token: %w", err)
	}
	var actor shared.Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return shared.Actor{}, fmt.Errorf("auth: decode actor: %w", err)
	}
	if err := s.client.Expire(ctx, tokenKey(token), s.ttl).Err(); err != nil {
		return shared.Actor{}, fmt.Errorf("auth: refresh token ttl: %w", err)
	}
	return actor, nil
}

// Revoke removes the token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if s == nil || s.client == nil {
		return errors.New("auth: token store not initialised")
	}
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func tokenKey(token string) string {
	return "token:" + token
}
