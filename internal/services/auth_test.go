package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(userRepo *fakeUserRepo, emailSvc *fakeEmailService) domain.AuthService {
	var email domain.EmailService
	if emailSvc != nil {
		email = emailSvc
	}
	return NewAuthService(userRepo, &fakeHasher{}, &fakeTokenIssuer{}, time.Hour, email, slog.Default())
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		emailSvc := &fakeEmailService{}
		svc := newTestAuthService(userRepo, emailSvc)

		user, err := svc.SignUp(ctx, "  Alice@Example.COM ", "supersecret", " Alice ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Name)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "hashed:salt:supersecret", user.PasswordHash)
		require.Len(t, emailSvc.welcomes, 1)
		assert.Equal(t, "alice@example.com", emailSvc.welcomes[0].Email)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), nil)
		_, err := svc.SignUp(ctx, "not-an-email", "supersecret", "Alice")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("short password", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), nil)
		_, err := svc.SignUp(ctx, "alice@example.com", "short", "Alice")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		svc := newTestAuthService(userRepo, nil)
		_, err := svc.SignUp(ctx, "alice@example.com", "supersecret", "Alice")
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "alice@example.com", "supersecret", "Other Alice")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("welcome email failure is not fatal", func(t *testing.T) {
		emailSvc := &fakeEmailService{err: context.DeadlineExceeded}
		svc := newTestAuthService(newFakeUserRepo(), emailSvc)
		user, err := svc.SignUp(ctx, "alice@example.com", "supersecret", "Alice")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func() (domain.AuthService, *fakeUserRepo) {
		userRepo := newFakeUserRepo()
		svc := newTestAuthService(userRepo, nil)
		_, err := svc.SignUp(ctx, "alice@example.com", "supersecret", "Alice")
		require.NoError(t, err)
		return svc, userRepo
	}

	t.Run("success", func(t *testing.T) {
		svc, userRepo := setup()
		token, err := svc.Login(ctx, "Alice@Example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "token-for-"+userRepo.byEmail["alice@example.com"].ID, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup()
		_, err := svc.Login(ctx, "alice@example.com", "wrongpass")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		svc, _ := setup()
		_, err := svc.Login(ctx, "nobody@example.com", "supersecret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid credentials")
	})
}
