package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one transactional email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

const (
	resendBaseURL = "https://api.resend.com"
	sendTimeout   = 10 * time.Second
)

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

// NewResendSender creates a Resend-backed sender.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		baseURL:    resendBaseURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

// WithBaseURL overrides the API base URL. Used in tests.
func (s *ResendSender) WithBaseURL(baseURL string) *ResendSender {
	s.baseURL = baseURL

	return s
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("resend returned %d", resp.StatusCode)
	}

	return nil
}

// LogSender logs emails instead of sending them. Used when no API key is
// configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info("email simulated",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}

// NewSender picks the real sender when an API key is configured and the
// log-only sender otherwise.
func NewSender(apiKey, from string, logger *zap.Logger) Sender {
	if apiKey == "" {
		return NewLogSender(logger)
	}

	return NewResendSender(apiKey, from)
}
