package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MemoryFact is a durable note the assistant saved about the operator or the
// academy, replayed into the system context on every turn.
type MemoryFact struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}

// Validate checks the fact before persisting.
func (m MemoryFact) Validate() error {
	if m.Content == "" {
		return NewValidationErr("content cannot be empty")
	}
	return nil
}

// MemoryRepository is the Data Store surface for assistant memory.
type MemoryRepository interface {
	ListFacts(ctx context.Context) ([]MemoryFact, error)
	SaveFact(ctx context.Context, fact MemoryFact) error
	DeleteFact(ctx context.Context, id uuid.UUID) error
}
