package usecases

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

// Maximum number of conversation history messages sent with one turn.
const MAX_TURN_HISTORY_MESSAGES = 20

// SendTurnParams holds optional parameters for SendTurn execution.
type SendTurnParams struct {
	ImageBase64 *string
}

// SendTurnOption defines a functional option for configuring SendTurnParams.
type SendTurnOption func(*SendTurnParams)

// WithImage attaches a base64-encoded image to the user turn.
func WithImage(imageBase64 string) SendTurnOption {
	return func(params *SendTurnParams) {
		params.ImageBase64 = &imageBase64
	}
}

// SendTurn defines the interface for the single-shot chat use case.
type SendTurn interface {
	// Execute runs one request/response assistant turn and returns the
	// message appended for the caller to render.
	Execute(ctx context.Context, userText string, mode domain.AssistantMode, opts ...SendTurnOption) (domain.ConversationMessage, error)
}

// SendTurnImpl is the implementation of the SendTurn use case.
type SendTurnImpl struct {
	gateway        domain.ModelGateway
	registry       domain.ToolRegistry
	contextBuilder domain.ContextBuilder
	convRepo       domain.ConversationRepository
	uow            domain.UnitOfWork
	timeProvider   domain.CurrentTimeProvider
	logger         *log.Logger
}

// NewSendTurnImpl creates a new instance of SendTurnImpl.
func NewSendTurnImpl(
	gateway domain.ModelGateway,
	registry domain.ToolRegistry,
	contextBuilder domain.ContextBuilder,
	convRepo domain.ConversationRepository,
	uow domain.UnitOfWork,
	timeProvider domain.CurrentTimeProvider,
	logger *log.Logger,
) SendTurnImpl {
	return SendTurnImpl{
		gateway:        gateway,
		registry:       registry,
		contextBuilder: contextBuilder,
		convRepo:       convRepo,
		uow:            uow,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// Execute runs one assistant turn: build the system context, call the gateway
// once, dispatch tool calls at most once, and append exactly one reply
// message. A gateway failure becomes a single system-role error message and
// the turn is abandoned without retry.
func (st SendTurnImpl) Execute(ctx context.Context, userText string, mode domain.AssistantMode, opts ...SendTurnOption) (domain.ConversationMessage, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	params := &SendTurnParams{}
	for _, opt := range opts {
		opt(params)
	}

	if strings.TrimSpace(userText) == "" && params.ImageBase64 == nil {
		return domain.ConversationMessage{}, domain.NewValidationErr("message cannot be empty")
	}

	instruction, err := st.contextBuilder.BuildSystemContext(spanCtx, mode, userText)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.ConversationMessage{}, err
	}

	userMessage := st.buildUserMessage(userText, params)
	if err := st.convRepo.AppendMessage(spanCtx, userMessage); telemetry.RecordErrorAndStatus(span, err) {
		return domain.ConversationMessage{}, err
	}

	history, _, err := st.convRepo.ListMessages(spanCtx, 1, MAX_TURN_HISTORY_MESSAGES)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.ConversationMessage{}, err
	}

	// The hard half of the guest gate: an empty catalog means the model has
	// nothing to call, whatever the prompt says.
	var tools []domain.ToolDefinition
	if mode == domain.AssistantMode_Authenticated {
		tools = st.registry.List()
	}

	result, err := st.gateway.GenerateTurn(spanCtx, domain.TurnRequest{
		SystemInstruction: instruction,
		Messages:          history,
		Tools:             tools,
	})
	if err != nil {
		telemetry.RecordErrorAndStatus(span, err)
		return st.appendErrorMessage(spanCtx, err), nil
	}

	var reply domain.ConversationMessage
	switch {
	case len(result.ToolCalls) > 0 && mode == domain.AssistantMode_Authenticated:
		responses := st.registry.Dispatch(spanCtx, result.ToolCalls)
		RecordToolCalls(spanCtx, len(result.ToolCalls))
		reply = domain.NewTextMessage(domain.ChatRole_Model, formatToolResponses(responses))
	case len(result.ToolCalls) > 0:
		// The model was never offered a catalog in guest mode; calls it
		// fabricates anyway are dropped without dispatch.
		st.logger.Printf("dropping %d tool calls issued in guest mode", len(result.ToolCalls))
		reply = domain.NewTextMessage(domain.ChatRole_Model, result.Text)
	default:
		reply = domain.NewTextMessage(domain.ChatRole_Model, result.Text)
	}
	reply.CreatedAt = st.timeProvider.Now()

	err = st.uow.Execute(spanCtx, func(uow domain.UnitOfWork) error {
		if err := uow.Conversation().AppendMessage(spanCtx, reply); err != nil {
			return err
		}
		return uow.Outbox().CreateChatEvent(spanCtx, domain.ChatMessageEvent{
			Type:          domain.EventType_CHAT_MESSAGE_SENT,
			ChatRole:      reply.Role,
			ChatMessageID: reply.ID,
			CreatedAt:     reply.CreatedAt,
		})
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.ConversationMessage{}, err
	}

	return reply, nil
}

func (st SendTurnImpl) buildUserMessage(userText string, params *SendTurnParams) domain.ConversationMessage {
	parts := []domain.MessagePart{}
	if strings.TrimSpace(userText) != "" {
		parts = append(parts, domain.MessagePart{Kind: domain.MessagePartKind_Text, Value: userText})
	}
	if params.ImageBase64 != nil {
		parts = append(parts, domain.MessagePart{Kind: domain.MessagePartKind_Image, Value: *params.ImageBase64})
	}
	return domain.ConversationMessage{
		ID:        uuid.New(),
		Role:      domain.ChatRole_User,
		Parts:     parts,
		CreatedAt: st.timeProvider.Now(),
	}
}

// appendErrorMessage records the gateway failure as a system message. The turn
// is over; the user re-sends if they want another attempt.
func (st SendTurnImpl) appendErrorMessage(ctx context.Context, cause error) domain.ConversationMessage {
	message := domain.NewTextMessage(domain.ChatRole_System,
		fmt.Sprintf("The assistant is unavailable right now: %s", cause.Error()))
	message.CreatedAt = st.timeProvider.Now()
	if err := st.convRepo.AppendMessage(ctx, message); err != nil {
		st.logger.Printf("failed to persist gateway error message: %v", err)
	}
	return message
}

// formatToolResponses renders one human-readable line per tool response.
func formatToolResponses(responses []domain.ToolResponse) string {
	lines := make([]string, 0, len(responses))
	for _, resp := range responses {
		lines = append(lines, formatToolResponse(resp))
	}
	return strings.Join(lines, "\n")
}

func formatToolResponse(resp domain.ToolResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	if suggestions, ok := resp.Result["suggestions"].([]map[string]any); ok {
		var b strings.Builder
		if msg, ok := resp.Result["message"].(string); ok {
			b.WriteString(msg)
		}
		for _, s := range suggestions {
			fmt.Fprintf(&b, "\n- %v (%v)", s["name"], s["id"])
		}
		return b.String()
	}
	if msg, ok := resp.Result["message"].(string); ok {
		return msg
	}
	if errText, ok := resp.Result["error"].(string); ok {
		if details, ok := resp.Result["details"].(string); ok && details != "" {
			return fmt.Sprintf("%s: %s (%s)", resp.Name, errText, details)
		}
		return fmt.Sprintf("%s: %s", resp.Name, errText)
	}
	return "Action performed"
}

// InitSendTurn initializes the SendTurn use case and registers it in the
// dependency container.
type InitSendTurn struct {
	Gateway        domain.ModelGateway           `resolve:""`
	Registry       domain.ToolRegistry           `resolve:""`
	ContextBuilder domain.ContextBuilder         `resolve:""`
	ConvRepo       domain.ConversationRepository `resolve:""`
	Uow            domain.UnitOfWork             `resolve:""`
	TimeProvider   domain.CurrentTimeProvider    `resolve:""`
	Logger         *log.Logger                   `resolve:""`
}

func (i InitSendTurn) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[SendTurn](NewSendTurnImpl(
		i.Gateway,
		i.Registry,
		i.ContextBuilder,
		i.ConvRepo,
		i.Uow,
		i.TimeProvider,
		i.Logger,
	))
	return ctx, nil
}
