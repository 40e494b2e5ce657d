package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the relay lifecycle of a stored event.
type OutboxStatus string

const (
	// OutboxStatus_Pending marks an event waiting for the relay.
	OutboxStatus_Pending OutboxStatus = "PENDING"
	// OutboxStatus_Failed marks an event whose retry budget ran out.
	OutboxStatus_Failed OutboxStatus = "FAILED"
	// OutboxStatus_Processed marks an event that reached the broker.
	OutboxStatus_Processed OutboxStatus = "PROCESSED"
)

// OutboxEntityType names the aggregate an outbox event belongs to.
type OutboxEntityType string

const (
	// OutboxEntityType_Record covers CRM record mutations.
	OutboxEntityType_Record OutboxEntityType = "Record"
	// OutboxEntityType_ChatMessage covers assistant conversation events.
	OutboxEntityType_ChatMessage OutboxEntityType = "ChatMessage"
)

// OutboxTopic is the broker topic an event publishes to.
type OutboxTopic string

const (
	OutboxTopic_Records      OutboxTopic = "Records"
	OutboxTopic_ChatMessages OutboxTopic = "ChatMessages"
)

// OutboxEvent is one stored event row. Events are written in the same
// transaction as the mutation they describe and relayed asynchronously.
type OutboxEvent struct {
	ID          uuid.UUID
	EntityType  OutboxEntityType
	EntityID    uuid.UUID
	Topic       OutboxTopic
	EventType   EventType
	Payload     []byte
	Status      OutboxStatus
	RetryCount  int
	MaxRetries  int
	LastError   *string
	DedupeKey   *string
	AvailableAt time.Time
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// OutboxRepository manages the transactional outbox.
type OutboxRepository interface {
	// CreateEntityEvent stores a CRM record event.
	CreateEntityEvent(ctx context.Context, event EntityEvent) error
	// CreateChatEvent stores a chat message event.
	CreateChatEvent(ctx context.Context, event ChatMessageEvent) error
	// FetchPendingEvents returns up to limit pending events, oldest first.
	FetchPendingEvents(ctx context.Context, limit int) ([]OutboxEvent, error)
	// UpdateEvent records a relay attempt outcome on one event.
	UpdateEvent(ctx context.Context, eventID uuid.UUID, status OutboxStatus, retryCount int, lastError string) error
	// DeleteEvent removes a published event.
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}
