// Package queue defines the notification payloads exchanged over the
// message broker, the publisher used by the core services and the
// background consumer that performs delivery.  The core only enqueues
// delivery requests; whether delivery succeeds is never observed here.
package queue

import "github.com/google/uuid"

// Template kinds understood by the email worker.
const (
	TemplateRegistration  = "registration"
	TemplatePasswordReset = "password-reset"
)

// EmailEvent is an immutable delivery request produced by the auth flows.
// Params carry template-specific values such as the confirmation link or
// the formatted reset-token expiry.
type EmailEvent struct {
	EventID      string            `json:"event_id"`
	Recipient    string            `json:"recipient"`
	TemplateKind string            `json:"template_kind"`
	Params       map[string]string `json:"params"`
}

// NewEmailEvent stamps a delivery request with a unique event id.
func NewEmailEvent(recipient, templateKind string, params map[string]string) EmailEvent {
	return EmailEvent{
		EventID:      uuid.NewString(),
		Recipient:    recipient,
		TemplateKind: templateKind,
		Params:       params,
	}
}
