package service

import (
	"context"
	"time"
)

// AccountEventType names a lifecycle event of an account.
type AccountEventType string

const (
	AccountEventRegistered       AccountEventType = "account.registered"
	AccountEventLoggedIn         AccountEventType = "account.logged_in"
	AccountEventFederatedCreated AccountEventType = "account.federated_created"
	AccountEventFederatedLinked  AccountEventType = "account.federated_linked"
	AccountEventSessionsRevoked  AccountEventType = "account.sessions_revoked"
	AccountEventDeleted          AccountEventType = "account.deleted"
)

// AccountEvent is published after the transaction that produced it has committed.
type AccountEvent struct {
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	EventID    string           `json:"event_id"`
	EventType  AccountEventType `json:"event_type"`
	AccountID  string           `json:"account_id"`
	Email      string           `json:"email,omitempty"`
	Provider   string           `json:"provider,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// AccountEventPublisher defines the interface for publishing account events to a message queue
type AccountEventPublisher interface {
	// PublishAccountEvent publishes an account event for downstream consumers
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
