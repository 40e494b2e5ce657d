package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeSnippet is a chunk of academy reference material stored with an
// embedding for similarity search.
type KnowledgeSnippet struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// Validate checks the snippet before persisting.
func (k KnowledgeSnippet) Validate() error {
	if k.Title == "" {
		return NewValidationErr("title cannot be empty")
	}
	if k.Content == "" {
		return NewValidationErr("content cannot be empty")
	}
	return nil
}

// KnowledgeRepository is the Data Store surface for reference material.
type KnowledgeRepository interface {
	UpsertSnippet(ctx context.Context, snippet KnowledgeSnippet) error
	DeleteSnippet(ctx context.Context, id uuid.UUID) error

	// SearchSimilar returns the snippets nearest to the query embedding,
	// ordered by cosine distance.
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]KnowledgeSnippet, error)
}

// Embedder turns text into a vector suitable for SearchSimilar.
type Embedder interface {
	EmbedText(ctx context.Context, text string) (pgvector.Vector, error)
}
