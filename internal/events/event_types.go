package events

import (
	"time"

	"github.com/zengest/platform/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentityRegistered  EventType = "identity_registered"
	EventIdentityLoggedIn    EventType = "identity_logged_in"
	EventSessionRevoked      EventType = "session_revoked"
	EventIdentityActiveState EventType = "identity_active_state"
)

// Event represents a domain event emitted by the identity authority.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IdentityID string      `json:"identity_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IdentityRegisteredPayload payload.
type IdentityRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// IdentityLoggedInPayload payload.
type IdentityLoggedInPayload struct {
	Email string `json:"email"`
}

// IdentityActiveStatePayload payload.
type IdentityActiveStatePayload struct {
	Active bool `json:"active"`
}
