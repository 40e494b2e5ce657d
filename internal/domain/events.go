package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// EventType_ENTITY_CREATED represents the event when a CRM record is created.
	EventType_ENTITY_CREATED EventType = "ENTITY.CREATED"
	// EventType_ENTITY_UPDATED represents the event when a CRM record is updated.
	EventType_ENTITY_UPDATED EventType = "ENTITY.UPDATED"
	// EventType_ENTITY_DELETED represents the event when a CRM record is deleted.
	EventType_ENTITY_DELETED EventType = "ENTITY.DELETED"
	// EventType_CHAT_MESSAGE_SENT represents the event when a chat message is sent.
	EventType_CHAT_MESSAGE_SENT EventType = "CHAT_MESSAGE.SENT"
)

// EntityEvent represents a domain event for a CRM record.
type EntityEvent struct {
	Type      EventType
	Kind      EntityKind
	EntityID  uuid.UUID
	CreatedAt time.Time
}

// ChatMessageEvent represents a domain event for chat messages in the system.
type ChatMessageEvent struct {
	Type          EventType
	ChatRole      ChatRole
	ChatMessageID uuid.UUID
	CreatedAt     time.Time
}

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event OutboxEvent) error
}
