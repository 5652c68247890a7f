package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qazuor/hospeda-sub009/internal/shared"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Credentials is the slice of a user account authentication needs.
type Credentials struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         shared.Role
	Permissions  []string
	Active       bool
}

// CredentialSource resolves account credentials by email. The users module
// implements it.
type CredentialSource interface {
	CredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}

// Service wraps authentication business rules.
type Service struct {
	source CredentialSource
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(source CredentialSource, tokens *TokenStore) *Service {
	return &Service{source: source, tokens: tokens}
}

// Login validates email/password credentials and issues a bearer token for
// the account's actor.
func (s *Service) Login(ctx context.Context, email, password string) (string, shared.Actor, error) {
	creds, err := s.source.CredentialsByEmail(ctx, email)
	if err != nil {
		return "", shared.Actor{}, ErrInvalidCredentials
	}
	if !creds.Active {
		return "", shared.Actor{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return "", shared.Actor{}, ErrInvalidCredentials
	}
	actor := shared.Actor{ID: creds.ID, Role: creds.Role, Permissions: creds.Permissions}
	token, err := s.tokens.Issue(ctx, actor)
	if err != nil {
		return "", shared.Actor{}, err
	}
	return token, actor, nil
}

// Logout revokes the bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Resolve satisfies the actor-resolver middleware contract.
func (s *Service) Resolve(ctx context.Context, token string) (shared.Actor, error) {
	return s.tokens.Resolve(ctx, token)
}
