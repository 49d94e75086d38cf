package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nuturl/nuturl/internal/auth"
	"github.com/nuturl/nuturl/internal/handlers"
	"github.com/nuturl/nuturl/internal/mailer"
	"github.com/nuturl/nuturl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type emailRecorder struct {
	sent []*mailer.EmailRequestedEvent
	err  error
}

func (r *emailRecorder) publish(event *mailer.EmailRequestedEvent) error {
	r.sent = append(r.sent, event)

	return r.err
}

func registerRequest(email, name, password string) *handlers.RegisterRequest {
	req := &handlers.RegisterRequest{}
	req.Body.Email = email
	req.Body.Name = name
	req.Body.Password = password

	return req
}

func loginRequest(email, password string) *handlers.LoginRequest {
	req := &handlers.LoginRequest{}
	req.Body.Email = email
	req.Body.Password = password

	return req
}

func TestAuthHandler_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a free account and queues the welcome email", func(t *testing.T) {
		accounts := store.NewMemoryAccountStore()
		emails := &emailRecorder{}
		handler := handlers.NewAuthHandler(accounts, testSecret, emails.publish, zap.NewNop())

		resp, err := handler.Register(ctx, registerRequest("User@Example.com", "User", "s3cret-pw"))

		require.NoError(t, err)
		assert.Equal(t, "user@example.com", resp.Body.User.Email)
		assert.Equal(t, "FREE", resp.Body.User.Tier)
		assert.NotEmpty(t, resp.Body.Token)

		claims, err := auth.ParseToken(resp.Body.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, resp.Body.User.ID, claims.Subject)

		require.Len(t, emails.sent, 1)
		assert.Equal(t, "user@example.com", emails.sent[0].To)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		accounts := store.NewMemoryAccountStore()
		emails := &emailRecorder{}
		handler := handlers.NewAuthHandler(accounts, testSecret, emails.publish, zap.NewNop())

		_, err := handler.Register(ctx, registerRequest("user@example.com", "User", "s3cret-pw"))
		require.NoError(t, err)

		_, err = handler.Register(ctx, registerRequest("user@example.com", "Again", "other-pw"))

		assertStatus(t, err, 400)
	})

	t.Run("email queue failures do not fail registration", func(t *testing.T) {
		accounts := store.NewMemoryAccountStore()
		emails := &emailRecorder{err: errors.New("broker down")}
		handler := handlers.NewAuthHandler(accounts, testSecret, emails.publish, zap.NewNop())

		resp, err := handler.Register(ctx, registerRequest("user@example.com", "User", "s3cret-pw"))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.Token)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *handlers.AuthHandler {
		t.Helper()

		accounts := store.NewMemoryAccountStore()
		handler := handlers.NewAuthHandler(accounts, testSecret, (&emailRecorder{}).publish, zap.NewNop())

		_, err := handler.Register(ctx, registerRequest("user@example.com", "User", "s3cret-pw"))
		require.NoError(t, err)

		return handler
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		handler := setup(t)

		resp, err := handler.Login(ctx, loginRequest("user@example.com", "s3cret-pw"))

		require.NoError(t, err)
		assert.Equal(t, "user@example.com", resp.Body.User.Email)
		assert.NotEmpty(t, resp.Body.Token)
	})

	t.Run("email matching is case insensitive", func(t *testing.T) {
		handler := setup(t)

		_, err := handler.Login(ctx, loginRequest("USER@example.com", "s3cret-pw"))

		assert.NoError(t, err)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		handler := setup(t)

		_, err := handler.Login(ctx, loginRequest("user@example.com", "wrong"))

		assertStatus(t, err, 400)
	})

	t.Run("rejects unknown emails with the same error", func(t *testing.T) {
		handler := setup(t)

		_, err := handler.Login(ctx, loginRequest("nobody@example.com", "s3cret-pw"))

		assertStatus(t, err, 400)
	})
}
