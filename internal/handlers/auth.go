package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/auth"
	"github.com/nuturl/nuturl/internal/mailer"
	"github.com/nuturl/nuturl/internal/messaging"
	"go.uber.org/zap"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	accounts     account.Repository
	jwtSecret    string
	publishEmail messaging.Publish[mailer.EmailRequestedEvent]
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	accounts account.Repository,
	jwtSecret string,
	publishEmail messaging.Publish[mailer.EmailRequestedEvent],
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		jwtSecret:    jwtSecret,
		publishEmail: publishEmail,
		logger:       logger,
	}
}

func accountPayload(acct *account.Account) AccountPayload {
	return AccountPayload{
		ID:    acct.ID,
		Email: acct.Email,
		Name:  acct.Name,
		Tier:  string(acct.Tier),
	}
}

func (h *AuthHandler) authResponse(acct *account.Account) (*AuthResponse, error) {
	token, err := auth.SignToken(acct.ID, acct.Tier, h.jwtSecret)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to issue token")
	}

	resp := &AuthResponse{}
	resp.Body.User = accountPayload(acct)
	resp.Body.Token = token

	return resp, nil
}

// Register creates a new free-tier account and queues the welcome email.
func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Body.Email))

	_, err := h.accounts.GetByEmail(ctx, email)
	if err == nil {
		return nil, huma.Error400BadRequest("email already registered")
	}

	if !errors.Is(err, account.ErrNotFound) {
		return nil, huma.Error500InternalServerError("registration failed")
	}

	salt, hash, err := auth.HashPassword(req.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("registration failed")
	}

	acct := &account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Body.Name,
		PasswordHash: hash,
		Salt:         salt,
		Tier:         account.TierFree,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.accounts.Create(ctx, acct); err != nil {
		return nil, huma.Error500InternalServerError("registration failed")
	}

	welcome := mailer.WelcomeEmail(acct.Email, acct.Name)
	if err := h.publishEmail(&welcome); err != nil {
		h.logger.Error("failed to queue welcome email",
			zap.String("account_id", acct.ID),
			zap.Error(err),
		)
	}

	return h.authResponse(acct)
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Body.Email))

	acct, err := h.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, huma.Error400BadRequest("invalid credentials")
		}

		return nil, huma.Error500InternalServerError("login failed")
	}

	if !auth.VerifyPassword(req.Body.Password, acct.Salt, acct.PasswordHash) {
		return nil, huma.Error400BadRequest("invalid credentials")
	}

	return h.authResponse(acct)
}
