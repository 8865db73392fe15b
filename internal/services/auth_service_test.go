package services

import (
	"context"
	"errors"
	"testing"

	"titipsini/internal/amqp"
	"titipsini/internal/core"
)

type recordingPublisher struct {
	events []*amqp.LoginEvent
	err    error
	closed bool
}

func (p *recordingPublisher) PublishLoginEvent(_ context.Context, ev *amqp.LoginEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestAuthService_LoginRequiresBothFields(t *testing.T) {
	svc := NewAuthService(nil)

	tests := []struct {
		name string
		req  LoginRequest
		want error
	}{
		{"missing email", LoginRequest{Password: "rahasia"}, core.ErrEmptyEmail},
		{"whitespace email", LoginRequest{Email: "   ", Password: "rahasia"}, core.ErrEmptyEmail},
		{"missing password", LoginRequest{Email: "admin@titipsini.com"}, core.ErrEmptyPassword},
		{"both missing", LoginRequest{}, core.ErrEmptyEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Login() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthService_LoginWithoutPublisher(t *testing.T) {
	svc := NewAuthService(nil)
	res, err := svc.Login(context.Background(), LoginRequest{Email: " admin@titipsini.com ", Password: "x"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Email != "admin@titipsini.com" {
		t.Errorf("Email = %q, want trimmed", res.Email)
	}
	if res.Notice != DemoLoginNotice || res.EventID == "" {
		t.Errorf("unexpected result %+v", res)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close() with nil publisher = %v", err)
	}
}

func TestAuthService_LoginPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAuthService(pub)

	res, err := svc.Login(context.Background(), LoginRequest{
		Email:      "admin@titipsini.com",
		Password:   "rahasia",
		RemoteAddr: "10.0.0.1",
		UserAgent:  "Mozilla/5.0",
		RequestID:  "req-1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.ID != res.EventID || ev.RequestID != "req-1" || ev.RemoteAddr != "10.0.0.1" || !ev.Success {
		t.Errorf("unexpected event %+v", ev)
	}

	if err := svc.Close(); err != nil || !pub.closed {
		t.Errorf("Close() should close the publisher, err=%v closed=%v", err, pub.closed)
	}
}

func TestAuthService_PublishFailureDoesNotFailLogin(t *testing.T) {
	pub := &recordingPublisher{err: amqp.ErrCircuitOpen}
	svc := NewAuthService(pub)

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login() should succeed when publishing fails, got %v", err)
	}
}

func TestAuthService_NoEventForInvalidRequest(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewAuthService(pub)
	_, _ = svc.Login(context.Background(), LoginRequest{Email: "a@b.c"})
	if len(pub.events) != 0 {
		t.Errorf("no event expected for rejected form, got %d", len(pub.events))
	}
}
