package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/memora-app/memora-api/internal/auth"
	"github.com/memora-app/memora-api/internal/identity"
	"github.com/memora-app/memora-api/internal/token"
)

type flakyRepo struct {
	findErr   error
	findUser  *auth.User
	createErr error
	created   *auth.User
}

func (f *flakyRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findUser, nil
}

func (f *flakyRepo) Create(ctx context.Context, user *auth.User) error {
	f.created = user
	return f.createErr
}

func newService(repo auth.Repository, verifier identity.Verifier) *auth.Service {
	return auth.NewService(repo, verifier, token.NewIssuer("service-test-secret"), time.Hour)
}

func TestSignupStoresHashedPassword(t *testing.T) {
	repo := &flakyRepo{findErr: auth.ErrUserNotFound}
	svc := newService(repo, &stubVerifier{})

	signed, err := svc.Signup(context.Background(), "ada@example.com", "ada", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	require.NotNil(t, repo.created)
	assert.NotEqual(t, "hunter22", repo.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("hunter22")))
	assert.NotEmpty(t, repo.created.ID)
	assert.Empty(t, repo.created.Provider)
}

func TestSignupRaceLoserGetsConflict(t *testing.T) {
	// Two concurrent signups can both pass the existence check; the store's
	// unique constraint decides, and the loser sees the conflict.
	repo := &flakyRepo{findErr: auth.ErrUserNotFound, createErr: auth.ErrEmailTaken}
	svc := newService(repo, &stubVerifier{})

	_, err := svc.Signup(context.Background(), "ada@example.com", "ada", "hunter22")
	require.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestSignupPropagatesLookupFailure(t *testing.T) {
	repo := &flakyRepo{findErr: fmt.Errorf("auth: find by email: %w", errors.New("connection refused"))}
	svc := newService(repo, &stubVerifier{})

	_, err := svc.Signup(context.Background(), "ada@example.com", "ada", "hunter22")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrEmailTaken)
}

func TestSigninPropagatesStoreError(t *testing.T) {
	repo := &flakyRepo{findErr: errors.New("connection reset")}
	svc := newService(repo, &stubVerifier{})

	_, err := svc.Signin(context.Background(), "ada@example.com", "hunter22")
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrWrongPassword)
}

func TestGoogleSignupPropagatesExchangeFailure(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("%w: lookup returned status 400", identity.ErrExchangeFailed)}
	svc := newService(&flakyRepo{}, verifier)

	_, _, err := svc.GoogleSignup(context.Background(), "google", "bad-token")
	require.ErrorIs(t, err, identity.ErrExchangeFailed)
}

func TestGoogleSignupNormalizesProviderTag(t *testing.T) {
	repo := &flakyRepo{findErr: auth.ErrUserNotFound}
	verifier := &stubVerifier{identity: identity.Identity{
		Email:         "ada@example.com",
		EmailVerified: true,
		DisplayName:   "Ada Lovelace",
	}}
	svc := newService(repo, verifier)

	_, created, err := svc.GoogleSignup(context.Background(), "GOOGLE", "opaque-token")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, repo.created)
	assert.Equal(t, "google", repo.created.Provider)
	assert.Equal(t, "Ada Lovelace", repo.created.Username)
	assert.Empty(t, repo.created.PasswordHash)
}
