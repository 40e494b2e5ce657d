package postgres

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

var memoryFields = []string{
	"id",
	"content",
	"created_at",
}

// MemoryRepository persists assistant memory facts in Postgres.
type MemoryRepository struct {
	sb squirrel.StatementBuilderType
}

// NewMemoryRepository creates a new instance of MemoryRepository.
func NewMemoryRepository(br squirrel.BaseRunner) MemoryRepository {
	return MemoryRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListFacts retrieves all memory facts in creation order.
func (mr MemoryRepository) ListFacts(ctx context.Context) ([]domain.MemoryFact, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	rows, err := mr.sb.
		Select(memoryFields...).
		From("memory_facts").
		OrderBy("created_at ASC").
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var facts []domain.MemoryFact
	for rows.Next() {
		var fact domain.MemoryFact
		if err := rows.Scan(&fact.ID, &fact.Content, &fact.CreatedAt); telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		facts = append(facts, fact)
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return facts, nil
}

// SaveFact stores a new memory fact.
func (mr MemoryRepository) SaveFact(ctx context.Context, fact domain.MemoryFact) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := mr.sb.
		Insert("memory_facts").
		Columns(memoryFields...).
		Values(fact.ID, fact.Content, fact.CreatedAt).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// DeleteFact removes a memory fact by ID.
func (mr MemoryRepository) DeleteFact(ctx context.Context, id uuid.UUID) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := mr.sb.
		Delete("memory_facts").
		Where(squirrel.Eq{"id": id}).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitMemoryRepository is a Symbiont initializer for MemoryRepository.
type InitMemoryRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the MemoryRepository in the dependency container.
func (mr InitMemoryRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.MemoryRepository](NewMemoryRepository(mr.DB))
	return ctx, nil
}
