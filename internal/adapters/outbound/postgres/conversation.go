package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

var conversationFields = []string{
	"id",
	"chat_role",
	"parts",
	"created_at",
}

// ConversationRepository persists the assistant conversation in Postgres.
type ConversationRepository struct {
	sb squirrel.StatementBuilderType
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(br squirrel.BaseRunner) ConversationRepository {
	return ConversationRepository{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
	}
}

// ListMessages retrieves a page of messages counted from the latest, returned
// in chronological order. hasMore reports whether older messages exist.
func (cr ConversationRepository) ListMessages(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("pageSize", pageSize),
	))
	defer span.End()

	if err := validatePaging(page, pageSize); err != nil {
		return nil, false, err
	}

	rows, err := cr.sb.
		Select(conversationFields...).
		From("conversation_messages").
		OrderBy("created_at DESC").
		Limit(uint64(pageSize + 1)). // fetch one extra to detect older messages
		Offset(uint64((page - 1) * pageSize)).
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}
	defer rows.Close() //nolint:errcheck

	var msgs []domain.ConversationMessage
	for rows.Next() {
		var (
			m         domain.ConversationMessage
			partsJSON []byte
		)
		if err := rows.Scan(
			&m.ID,
			&m.Role,
			&partsJSON,
			&m.CreatedAt,
		); telemetry.RecordErrorAndStatus(span, err) {
			return nil, false, err
		}
		if len(partsJSON) > 0 {
			if err := json.Unmarshal(partsJSON, &m.Parts); telemetry.RecordErrorAndStatus(span, err) {
				return nil, false, err
			}
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	hasMore := false
	if len(msgs) > pageSize {
		hasMore = true
		msgs = msgs[:pageSize]
	}

	// Currently ordered DESC; reverse to ASC for chronological order
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	return msgs, hasMore, nil
}

// AppendMessage stores a new conversation message.
func (cr ConversationRepository) AppendMessage(ctx context.Context, message domain.ConversationMessage) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	partsJSON, err := json.Marshal(message.Parts)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	_, err = cr.sb.
		Insert("conversation_messages").
		Columns(conversationFields...).
		Values(
			message.ID,
			message.Role,
			partsJSON,
			message.CreatedAt,
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// ClearMessages removes every conversation message.
func (cr ConversationRepository) ClearMessages(ctx context.Context) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	_, err := cr.sb.
		Delete("conversation_messages").
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitConversationRepository is a Symbiont initializer for ConversationRepository.
type InitConversationRepository struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the ConversationRepository in the dependency container.
func (cr InitConversationRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.ConversationRepository](NewConversationRepository(cr.DB))
	return ctx, nil
}
