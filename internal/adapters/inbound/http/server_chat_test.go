package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

func TestAcademyServer_SendChatTurn(t *testing.T) {
	reply := domain.NewTextMessage(domain.ChatRole_Model, "Done, I created the task.")
	reply.CreatedAt = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		requestBody    []byte
		executeResult  domain.ConversationMessage
		executeErr     error
		expectedStatus int
		expectedMode   domain.AssistantMode
	}{
		"authenticated-by-default": {
			requestBody:    serializeJSON(t, sendChatTurnReq{Message: "create a task"}),
			executeResult:  reply,
			expectedStatus: http.StatusOK,
			expectedMode:   domain.AssistantMode_Authenticated,
		},
		"guest-mode-forwarded": {
			requestBody:    serializeJSON(t, sendChatTurnReq{Message: "hello", Mode: "guest"}),
			executeResult:  reply,
			expectedStatus: http.StatusOK,
			expectedMode:   domain.AssistantMode_Guest,
		},
		"unknown-mode": {
			requestBody:    serializeJSON(t, sendChatTurnReq{Message: "hello", Mode: "admin"}),
			expectedStatus: http.StatusBadRequest,
		},
		"empty-message": {
			requestBody:    serializeJSON(t, sendChatTurnReq{Message: ""}),
			executeErr:     domain.NewValidationErr("message cannot be empty"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var gotMode domain.AssistantMode
			api := &AcademyServer{
				Logger: log.Default(),
				SendTurnUseCase: &fakeSendTurn{
					executeFn: func(ctx context.Context, userText string, mode domain.AssistantMode, opts ...usecases.SendTurnOption) (domain.ConversationMessage, error) {
						gotMode = mode
						return tt.executeResult, tt.executeErr
					},
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/assistant/chat", bytes.NewReader(tt.requestBody))
			rec := httptest.NewRecorder()
			api.SendChatTurn(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			assert.Equal(t, tt.expectedMode, gotMode)
			var got chatMessageResp
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "model", got.Role)
			assert.Equal(t, "Done, I created the task.", got.Content)
		})
	}
}

func TestAcademyServer_SendChatTurn_OneTurnAtATime(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	api := &AcademyServer{
		Logger: log.Default(),
		SendTurnUseCase: &fakeSendTurn{
			executeFn: func(ctx context.Context, userText string, mode domain.AssistantMode, opts ...usecases.SendTurnOption) (domain.ConversationMessage, error) {
				close(started)
				<-release
				return domain.NewTextMessage(domain.ChatRole_Model, "ok"), nil
			},
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)
	firstRec := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		req := httptest.NewRequest(http.MethodPost, "/assistant/chat",
			bytes.NewReader(serializeJSON(t, sendChatTurnReq{Message: "first"})))
		api.SendChatTurn(firstRec, req)
	}()

	<-started

	secondRec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assistant/chat",
		bytes.NewReader(serializeJSON(t, sendChatTurnReq{Message: "second"})))
	api.SendChatTurn(secondRec, req)
	assert.Equal(t, http.StatusConflict, secondRec.Code)

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, firstRec.Code)
}

func TestAcademyServer_ListConversationMessages(t *testing.T) {
	messages := []domain.ConversationMessage{
		domain.NewTextMessage(domain.ChatRole_User, "how much does Amina owe?"),
		domain.NewTextMessage(domain.ChatRole_Model, "Amina owes $200."),
	}

	api := &AcademyServer{
		Logger: log.Default(),
		ListConversationUseCase: &fakeListConversation{
			queryFn: func(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
				assert.Equal(t, 2, page)
				assert.Equal(t, 10, pageSize)
				return messages, true, nil
			},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/assistant/conversation?page=2&page_size=10", nil)
	rec := httptest.NewRecorder()
	api.ListConversationMessages(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got conversationResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[0].Role)
	require.NotNil(t, got.NextPage)
	assert.Equal(t, 3, *got.NextPage)
	require.NotNil(t, got.PreviousPage)
	assert.Equal(t, 1, *got.PreviousPage)
}

func TestAcademyServer_ClearConversationMessages(t *testing.T) {
	clear := &fakeClearConversation{}
	api := &AcademyServer{
		Logger:                   log.Default(),
		ClearConversationUseCase: clear,
	}

	req := httptest.NewRequest(http.MethodDelete, "/assistant/conversation", nil)
	rec := httptest.NewRecorder()
	api.ClearConversationMessages(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, clear.called)
}
