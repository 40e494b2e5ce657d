package assistant

import (
	"context"

	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
)

// MemoryTool saves a durable fact for future conversations.
type MemoryTool struct {
	uow          domain.UnitOfWork
	timeProvider domain.CurrentTimeProvider
	createUUID   func() uuid.UUID
}

// NewMemoryTool creates a new instance of MemoryTool.
func NewMemoryTool(uow domain.UnitOfWork, timeProvider domain.CurrentTimeProvider) MemoryTool {
	return MemoryTool{
		uow:          uow,
		timeProvider: timeProvider,
		createUUID:   uuid.New,
	}
}

// StatusMessage returns a status message about the tool execution.
func (t MemoryTool) StatusMessage() string {
	return "🧠 Saving that for later..."
}

// Definition returns the tool schema for rememberInformation.
func (t MemoryTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "rememberInformation",
		Description: "Save one durable fact about the user or the academy so it is available in every future conversation. Use only for stable preferences and facts, never for transient chat content.",
		Parameters: []domain.ToolParam{
			{Name: "information", Type: domain.ToolParamType_String, Description: "The fact to remember, phrased as one sentence.", Required: true},
		},
	}
}

// Call executes rememberInformation.
func (t MemoryTool) Call(ctx context.Context, call domain.ToolCall) domain.ToolResponse {
	params := struct {
		Information string `json:"information"`
	}{}
	if err := decodeToolArgs(call.Args, &params); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	fact := domain.MemoryFact{
		ID:        t.createUUID(),
		Content:   params.Information,
		CreatedAt: t.timeProvider.Now(),
	}
	if err := fact.Validate(); err != nil {
		return errResponse(call, "invalid_arguments", err)
	}

	err := t.uow.Execute(ctx, func(uow domain.UnitOfWork) error {
		return uow.Memory().SaveFact(ctx, fact)
	})
	if err != nil {
		return errResponse(call, "remember_error", err)
	}

	return messageResponse(call, "Noted. I'll remember that.")
}
