package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"titipsini/internal/amqp"
	"titipsini/internal/core"
)

// DemoLoginNotice is shown after the simulated sign-in.
const DemoLoginNotice = "Demo UI: autentikasi belum dihubungkan."

// LoginPublisher emits login audit events.
type LoginPublisher interface {
	PublishLoginEvent(ctx context.Context, ev *amqp.LoginEvent) error
}

// LoginRequest carries the submitted form plus request metadata.
type LoginRequest struct {
	Email      string
	Password   string
	RemoteAddr string
	UserAgent  string
	RequestID  string
}

// LoginResult describes a successful sign-in.
type LoginResult struct {
	Email   string
	EventID string
	Notice  string
}

// AuthService handles the admin sign-in. There is no credential store: any
// request with both fields present succeeds.
type AuthService struct {
	publisher LoginPublisher
}

func NewAuthService(publisher LoginPublisher) *AuthService {
	return &AuthService{publisher: publisher}
}

// Validate reports the first missing field.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return core.ErrEmptyEmail
	}
	if r.Password == "" {
		return core.ErrEmptyPassword
	}
	return nil
}

// Login validates the form and publishes an audit event.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := req.Validate(); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	email := strings.TrimSpace(req.Email)

	ev := amqp.NewLoginEvent(email, req.RemoteAddr, req.UserAgent, true)
	ev.RequestID = req.RequestID

	if err := s.publishLoginEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish login event",
			"event_id", ev.ID, "error", err)
		// Don't fail the sign-in over the audit trail
	}

	slog.InfoContext(ctx, "Admin signed in (demo)", "email", email, "event_id", ev.ID)
	return LoginResult{Email: email, EventID: ev.ID, Notice: DemoLoginNotice}, nil
}

func (s *AuthService) publishLoginEvent(ctx context.Context, ev *amqp.LoginEvent) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping login event")
		return nil
	}
	return s.publisher.PublishLoginEvent(ctx, ev)
}

// Close releases the publisher if it holds a connection.
func (s *AuthService) Close() error {
	if c, ok := s.publisher.(io.Closer); ok && c != nil {
		return c.Close()
	}
	return nil
}
