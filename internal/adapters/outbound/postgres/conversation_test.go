package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestConversationRepository_AppendMessage(t *testing.T) {
	fixedUUID := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	fixedTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	message := domain.ConversationMessage{
		ID:   fixedUUID,
		Role: domain.ChatRole_User,
		Parts: []domain.MessagePart{
			{Kind: domain.MessagePartKind_Text, Value: "hello"},
		},
		CreatedAt: fixedTime,
	}
	partsJSON, _ := json.Marshal(message.Parts)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	defer db.Close() // nolint:errcheck

	mock.ExpectExec("INSERT INTO conversation_messages (id,chat_role,parts,created_at) VALUES ($1,$2,$3,$4)").
		WithArgs(message.ID, message.Role, partsJSON, message.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewConversationRepository(db)
	assert.NoError(t, repo.AppendMessage(context.Background(), message))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ListMessages(t *testing.T) {
	fixedTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	partsJSON, _ := json.Marshal([]domain.MessagePart{
		{Kind: domain.MessagePartKind_Text, Value: "hi"},
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	defer db.Close() // nolint:errcheck

	// Rows arrive newest first; the repository reverses them.
	rows := sqlmock.NewRows(conversationFields).
		AddRow(uuid.New(), domain.ChatRole_Model, partsJSON, fixedTime.Add(time.Minute)).
		AddRow(uuid.New(), domain.ChatRole_User, partsJSON, fixedTime)
	mock.ExpectQuery("SELECT id, chat_role, parts, created_at FROM conversation_messages ORDER BY created_at DESC LIMIT 21 OFFSET 0").
		WillReturnRows(rows)

	repo := NewConversationRepository(db)
	msgs, hasMore, gotErr := repo.ListMessages(context.Background(), 1, 20)
	assert.NoError(t, gotErr)
	assert.False(t, hasMore)
	assert.Len(t, msgs, 2)
	assert.Equal(t, domain.ChatRole_User, msgs[0].Role)
	assert.Equal(t, domain.ChatRole_Model, msgs[1].Role)
	assert.Equal(t, "hi", msgs[0].Text())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ClearMessages(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	defer db.Close() // nolint:errcheck

	mock.ExpectExec("DELETE FROM conversation_messages").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewConversationRepository(db)
	assert.NoError(t, repo.ClearMessages(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
