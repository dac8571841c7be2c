package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/librarian/internal/config"
	"github.com/openshelf/librarian/internal/database"
	"github.com/openshelf/librarian/internal/entities"
)

func setupAuthService(t *testing.T) (*Service, func()) {
	t.Helper()

	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	svc := NewService(db.DB, config.Auth{
		Mode:          config.AuthModeLocal,
		BcryptCost:    4, // keep tests fast
		ResetTokenTTL: 2 * time.Minute,
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return svc, cleanup
}

func registerTestUser(t *testing.T, svc *Service) *entities.User {
	t.Helper()
	user, err := svc.CreateUser(CreateUserInput{
		Username: "reader1",
		Email:    "reader1@example.com",
		Password: "letmein-please",
	})
	require.NoError(t, err)
	return user
}

func TestService_CreateUser(t *testing.T) {
	t.Run("creates activated account with hashed password", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		user := registerTestUser(t, svc)

		assert.Equal(t, entities.UserStatusActivated, user.Status)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "letmein-please", user.PasswordHash)
	})

	t.Run("rejects duplicate username or email", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		registerTestUser(t, svc)

		_, err := svc.CreateUser(CreateUserInput{
			Username: "reader1", Email: "other@example.com", Password: "letmein-please",
		})
		assert.ErrorIs(t, err, ErrUserExists)

		_, err = svc.CreateUser(CreateUserInput{
			Username: "other", Email: "reader1@example.com", Password: "letmein-please",
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("validates username and email", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		_, err := svc.CreateUser(CreateUserInput{Username: "x", Email: "a@b.com", Password: "letmein-please"})
		assert.ErrorIs(t, err, ErrUsernameInvalid)

		_, err = svc.CreateUser(CreateUserInput{Username: "reader1", Email: "not-an-email", Password: "letmein-please"})
		assert.ErrorIs(t, err, ErrEmailInvalid)

		_, err = svc.CreateUser(CreateUserInput{Username: "reader1", Email: "a@b.com"})
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()
		registerTestUser(t, svc)

		user, err := svc.Authenticate("reader1", "letmein-please")
		require.NoError(t, err)
		assert.Equal(t, "reader1", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()
		registerTestUser(t, svc)

		_, err := svc.Authenticate("reader1", "not-the-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user looks like wrong password", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		_, err := svc.Authenticate("nobody", "whatever-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()
		user := registerTestUser(t, svc)

		require.NoError(t, svc.SetUserStatus(user.ID, entities.UserStatusDeactivated))

		_, err := svc.Authenticate("reader1", "letmein-please")
		assert.ErrorIs(t, err, ErrUserDeactivated)
	})
}

func TestService_ChangePassword(t *testing.T) {
	svc, cleanup := setupAuthService(t)
	defer cleanup()
	user := registerTestUser(t, svc)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrong-old-pass", "new-password-1"), ErrInvalidPassword)

	require.NoError(t, svc.ChangePassword(user.ID, "letmein-please", "new-password-1"))

	_, err := svc.Authenticate("reader1", "new-password-1")
	assert.NoError(t, err)
}

func TestService_PasswordReset(t *testing.T) {
	t.Run("token round trip", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()
		registerTestUser(t, svc)

		token, user, err := svc.RequestPasswordReset("reader1@example.com")
		require.NoError(t, err)
		assert.Len(t, token, 6)
		assert.Equal(t, "reader1", user.Username)

		require.NoError(t, svc.ResetPassword(token, "brand-new-pass"))

		_, err = svc.Authenticate("reader1", "brand-new-pass")
		assert.NoError(t, err)

		// Token is single use
		assert.ErrorIs(t, svc.ResetPassword(token, "another-pass-2"), ErrResetTokenInvalid)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		_, _, err := svc.RequestPasswordReset("ghost@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()
		registerTestUser(t, svc)

		token, _, err := svc.RequestPasswordReset("reader1@example.com")
		require.NoError(t, err)

		// Jump the clock past the token TTL
		svc.now = func() time.Time { return time.Now().Add(3 * time.Minute) }

		assert.ErrorIs(t, svc.ResetPassword(token, "brand-new-pass"), ErrResetTokenExpired)
	})

	t.Run("bogus token", func(t *testing.T) {
		svc, cleanup := setupAuthService(t)
		defer cleanup()

		assert.ErrorIs(t, svc.ResetPassword("000000", "brand-new-pass"), ErrResetTokenInvalid)
		assert.ErrorIs(t, svc.ResetPassword("", "brand-new-pass"), ErrResetTokenInvalid)
	})
}

func TestService_HasUsers(t *testing.T) {
	svc, cleanup := setupAuthService(t)
	defer cleanup()

	has, err := svc.HasUsers()
	require.NoError(t, err)
	assert.False(t, has)

	registerTestUser(t, svc)

	has, err = svc.HasUsers()
	require.NoError(t, err)
	assert.True(t, has)
}
