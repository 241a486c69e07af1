package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "erents/internal/domain/auth"
	domainuser "erents/internal/domain/user"
	"erents/internal/infra/security"
	"erents/internal/infra/storage/memory"
)

func newService() (*Service, *memory.UserRepository) {
	users := memory.NewUserRepository()
	return &Service{
		Users:      users,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}, users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("tenant by default", func(t *testing.T) {
		svc, _ := newService()
		result, err := svc.Register(ctx, RegisterParams{
			Email:    "Anna@Example.com",
			Name:     "Anna",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "anna@example.com", result.User.Email, "email is normalized")
		assert.Equal(t, []domainuser.Role{domainuser.RoleTenant}, result.User.Roles)
	})

	t.Run("landlord on request", func(t *testing.T) {
		svc, _ := newService()
		result, err := svc.Register(ctx, RegisterParams{
			Email:      "bo@example.com",
			Name:       "Bo",
			Password:   "correct-horse",
			AsLandlord: true,
		})
		require.NoError(t, err)
		assert.Contains(t, result.User.Roles, domainuser.RoleLandlord)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, RegisterParams{Email: "c@example.com", Name: "C", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Register(ctx, RegisterParams{Email: "dup@example.com", Name: "One", Password: "correct-horse"})
		require.NoError(t, err)
		_, err = svc.Register(ctx, RegisterParams{Email: "dup@example.com", Name: "Two", Password: "correct-horse"})
		assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, users := newService()
	registered, err := svc.Register(ctx, RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct-horse"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginParams{Email: "anna@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.NotEqual(t, registered.Token, result.Token, "every login issues a fresh session")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "anna@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Email: "ghost@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("blocked user", func(t *testing.T) {
		account, err := users.ByID(ctx, registered.User.ID)
		require.NoError(t, err)
		account.Blocked = true
		require.NoError(t, users.Save(ctx, account))
		defer func() {
			account.Blocked = false
			require.NoError(t, users.Save(ctx, account))
		}()
		_, err = svc.Login(ctx, LoginParams{Email: "anna@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, ErrUserBlocked)
	})
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	registered, err := svc.Register(ctx, RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct-horse"})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		resolved, err := svc.ResolveToken(ctx, registered.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resolved.User.ID)
	})

	t.Run("after logout", func(t *testing.T) {
		result, err := svc.Login(ctx, LoginParams{Email: "anna@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		require.NoError(t, svc.Logout(ctx, result.Token))
		_, err = svc.ResolveToken(ctx, result.Token)
		assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ResolveToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := svc.ResolveToken(ctx, "")
		assert.ErrorIs(t, err, domainauth.ErrTokenRequired)
	})
}

func TestBecomeLandlord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	registered, err := svc.Register(ctx, RegisterParams{Email: "anna@example.com", Name: "Anna", Password: "correct-horse"})
	require.NoError(t, err)

	account, err := svc.BecomeLandlord(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Contains(t, account.Roles, domainuser.RoleLandlord)

	// Granting twice is a no-op, not an error.
	again, err := svc.BecomeLandlord(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Len(t, again.Roles, 2)
}
