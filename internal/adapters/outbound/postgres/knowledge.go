package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

var knowledgeFields = []string{
	"id",
	"title",
	"content",
	"embedding",
	"created_at",
}

// KnowledgeRepository persists academy reference material in Postgres with
// pgvector embeddings.
type KnowledgeRepository struct {
	sb squirrel.StatementBuilderType
}

// NewKnowledgeRepository creates a new instance of KnowledgeRepository.
func NewKnowledgeRepository(br squirrel.BaseRunner) KnowledgeRepository {
	return KnowledgeRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// UpsertSnippet inserts or replaces a knowledge snippet.
func (kr KnowledgeRepository) UpsertSnippet(ctx context.Context, snippet domain.KnowledgeSnippet) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := kr.sb.
		Insert("knowledge_snippets").
		Columns(knowledgeFields...).
		Values(
			snippet.ID,
			snippet.Title,
			snippet.Content,
			snippet.Embedding,
			snippet.CreatedAt,
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, embedding = EXCLUDED.embedding").
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteSnippet removes a knowledge snippet by ID.
func (kr KnowledgeRepository) DeleteSnippet(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := kr.sb.
		Delete("knowledge_snippets").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// SearchSimilar returns the snippets nearest to the query embedding, ordered
// by cosine distance.
func (kr KnowledgeRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int) ([]domain.KnowledgeSnippet, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("limit", limit),
	))
	defer span.End()

	rows, err := kr.sb.
		Select(knowledgeFields...).
		From("knowledge_snippets").
		OrderByClause(squirrel.Expr("embedding <=> ?", embedding)).
		Limit(uint64(limit)).
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var snippets []domain.KnowledgeSnippet
	for rows.Next() {
		var snippet domain.KnowledgeSnippet
		err := rows.Scan(
			&snippet.ID,
			&snippet.Title,
			&snippet.Content,
			&snippet.Embedding,
			&snippet.CreatedAt,
		)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		snippets = append(snippets, snippet)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return snippets, nil
}

// InitKnowledgeRepository is a Symbiont initializer for KnowledgeRepository.
type InitKnowledgeRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the KnowledgeRepository in the dependency container.
func (kr InitKnowledgeRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.KnowledgeRepository](NewKnowledgeRepository(kr.DB))
	return ctx, nil
}
