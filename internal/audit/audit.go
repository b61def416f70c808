// Package audit captures the append-only trail of verification activity.
// Events carry identifiers, actions, and counts; never field values, so a
// leaked audit log cannot expose document data.
package audit

import (
	"context"
	"time"
)

// Action enumerates auditable verification events.
type Action string

const (
	ActionSubmissionReceived Action = "submission_received"
	ActionSubmissionVerified Action = "submission_verified"
	ActionSubmissionRejected Action = "submission_rejected"
)

// Event is one audit trail entry.
type Event struct {
	Action       Action    `json:"action"`
	UserID       string    `json:"user_id"`
	SubmissionID string    `json:"submission_id"`
	DocumentType string    `json:"document_type"`
	ClientIP     string    `json:"client_ip,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID string) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, userID string) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}
