package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/memora-app/memora-api/internal/identity"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Sign(userID string, ttl time.Duration) (string, error)
}

// Service wraps the credential and token issuance rules.
type Service struct {
	repo     Repository
	verifier identity.Verifier
	issuer   TokenIssuer
	tokenTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, verifier identity.Verifier, issuer TokenIssuer, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, verifier: verifier, issuer: issuer, tokenTTL: tokenTTL}
}

// Signup registers a local account and returns a token with the configured
// expiry. The pre-check on email is an optimization; the store's unique
// constraint decides races.
func (s *Service) Signup(ctx context.Context, email, username, password string) (string, error) {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", err
	}
	return s.issuer.Sign(user.ID, s.tokenTTL)
}

// Signin verifies local credentials and returns a token. The token carries no
// expiry, matching the contract the web client already depends on.
func (s *Service) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.Local() {
		return "", ErrFederatedOnly
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}
	return s.issuer.Sign(user.ID, 0)
}

// GoogleSignup exchanges a Google identity token and finds or creates the
// matching account. The created flag reports which path was taken.
func (s *Service) GoogleSignup(ctx context.Context, provider, idToken string) (token string, created bool, err error) {
	id, err := s.verifier.Exchange(ctx, idToken)
	if err != nil {
		return "", false, err
	}
	if !id.EmailVerified {
		return "", false, ErrEmailUnverified
	}

	user, err := s.repo.FindByEmail(ctx, id.Email)
	if err == nil {
		token, err = s.issuer.Sign(user.ID, s.tokenTTL)
		return token, false, err
	}
	if !errors.Is(err, ErrUserNotFound) {
		return "", false, err
	}

	user = &User{
		ID:        uuid.NewString(),
		Email:     id.Email,
		Username:  id.DisplayName,
		Provider:  strings.ToLower(provider),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return "", false, err
	}
	token, err = s.issuer.Sign(user.ID, s.tokenTTL)
	return token, true, err
}
