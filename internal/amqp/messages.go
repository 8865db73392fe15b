package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LoginEvent records one login attempt on the admin console.
type LoginEvent struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLoginEvent stamps a fresh event ID and time.
func NewLoginEvent(email, remoteAddr, userAgent string, success bool) *LoginEvent {
	return &LoginEvent{
		ID:         uuid.NewString(),
		Email:      email,
		RemoteAddr: remoteAddr,
		UserAgent:  userAgent,
		Success:    success,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *LoginEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LoginEventFromJSON(data []byte) (*LoginEvent, error) {
	var msg LoginEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
