package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthUsecase, *memStore, *MockTokenRevoker, *MockPublisher) {
	store := newMemStore()
	revoker := new(MockTokenRevoker)
	pub := new(MockPublisher)
	tokens := auth.NewTokenManager("test-secret", time.Hour, "bookreview-test")
	uc := NewAuthUsecase(store.Users(), tokens, revoker, pub, metrics.NewMetricsManager("test"), logger.NewNop())
	return uc, store, revoker, pub
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, _, revoker, pub := newAuthFixture()
	pub.On("Publish", mock.Anything, SubjectUserRegistered, mock.Anything).Return(nil).Once()

	user, err := uc.Register(ctx, "Alice", "  Alice@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := uc.Register(ctx, "Other", "alice@example.com", "secret123")
		assert.True(t, errors.Is(err, domain.ErrEmailTaken))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := uc.Login(ctx, "alice@example.com", "nope-nope")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredential))
		assert.Equal(t, 401, domain.KindOf(err).HTTPStatus())
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := uc.Login(ctx, "bob@example.com", "secret123")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredential))
	})

	t.Run("login authenticates", func(t *testing.T) {
		token, loggedIn, err := uc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)

		revoker.On("IsRevoked", mock.Anything, token.ID).Return(false, nil).Once()
		p, err := uc.Authenticate(ctx, token.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.ID)
		assert.Equal(t, token.ID, p.TokenID)
		assert.False(t, p.IsAdmin())
	})

	pub.AssertExpectations(t)
	revoker.AssertExpectations(t)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	uc, store, revoker, _ := newAuthFixture()
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := domain.NewUser("Bob", "bob@example.com", hash)
	require.NoError(t, store.Users().Create(ctx, user))

	token, _, err := uc.Login(ctx, "bob@example.com", "secret123")
	require.NoError(t, err)

	revoker.On("IsRevoked", mock.Anything, token.ID).Return(false, nil).Once()
	p, err := uc.Authenticate(ctx, token.Token)
	require.NoError(t, err)

	revoker.On("Revoke", mock.Anything, token.ID, p.ExpiresAt).Return(nil).Once()
	require.NoError(t, uc.Logout(ctx, p))

	revoker.On("IsRevoked", mock.Anything, token.ID).Return(true, nil).Once()
	_, err = uc.Authenticate(ctx, token.Token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
	revoker.AssertExpectations(t)
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture()
		_, err := uc.Authenticate(ctx, "")
		assert.True(t, errors.Is(err, domain.ErrTokenRequired))
	})

	t.Run("garbage token", func(t *testing.T) {
		uc, _, _, _ := newAuthFixture()
		_, err := uc.Authenticate(ctx, "not.a.jwt")
		assert.True(t, errors.Is(err, domain.ErrInvalidToken))
	})

	t.Run("user deleted after issue", func(t *testing.T) {
		uc, _, revoker, _ := newAuthFixture()
		ghost := domain.NewUser("Ghost", "ghost@example.com", "hash")
		token, err := auth.NewTokenManager("test-secret", time.Hour, "bookreview-test").Issue(ghost)
		require.NoError(t, err)

		revoker.On("IsRevoked", mock.Anything, token.ID).Return(false, nil).Once()
		_, err = uc.Authenticate(ctx, token.Token)
		assert.True(t, errors.Is(err, domain.ErrInvalidToken))
	})

	t.Run("revocation store down", func(t *testing.T) {
		uc, _, revoker, _ := newAuthFixture()
		ghost := domain.NewUser("Ghost", "ghost@example.com", "hash")
		token, err := auth.NewTokenManager("test-secret", time.Hour, "bookreview-test").Issue(ghost)
		require.NoError(t, err)

		revoker.On("IsRevoked", mock.Anything, token.ID).Return(false, errors.New("redis: connection refused")).Once()
		_, err = uc.Authenticate(ctx, token.Token)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	})

	t.Run("role comes from the store", func(t *testing.T) {
		uc, store, revoker, _ := newAuthFixture()
		u := domain.NewUser("Promoted", "promoted@example.com", "hash")
		require.NoError(t, store.Users().Create(ctx, u))
		token, err := auth.NewTokenManager("test-secret", time.Hour, "bookreview-test").Issue(u)
		require.NoError(t, err)

		u.Role = domain.RoleAdmin
		require.NoError(t, store.Users().Update(ctx, u))

		revoker.On("IsRevoked", mock.Anything, token.ID).Return(false, nil).Once()
		p, err := uc.Authenticate(ctx, token.Token)
		require.NoError(t, err)
		assert.True(t, p.IsAdmin())
	})
}
