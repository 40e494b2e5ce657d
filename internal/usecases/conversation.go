package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

// ListConversation defines the interface for the ListConversation use case.
type ListConversation interface {
	Query(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error)
}

// ListConversationImpl is the implementation of the ListConversation use case.
type ListConversationImpl struct {
	convRepo domain.ConversationRepository
}

// NewListConversationImpl creates a new instance of ListConversationImpl.
func NewListConversationImpl(convRepo domain.ConversationRepository) ListConversationImpl {
	return ListConversationImpl{convRepo: convRepo}
}

// Query retrieves conversation messages with pagination support.
func (lc ListConversationImpl) Query(ctx context.Context, page, pageSize int) ([]domain.ConversationMessage, bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	messages, hasMore, err := lc.convRepo.ListMessages(spanCtx, page, pageSize)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, false, err
	}

	// System messages carry gateway notes and session markers; they stay
	// visible so the user sees why the assistant went quiet.
	return messages, hasMore, nil
}

// ClearConversation defines the interface for the ClearConversation use case.
type ClearConversation interface {
	Execute(ctx context.Context) error
}

// ClearConversationImpl implements the ClearConversation use case.
type ClearConversationImpl struct {
	uow domain.UnitOfWork
}

// NewClearConversationImpl creates a new ClearConversationImpl instance.
func NewClearConversationImpl(uow domain.UnitOfWork) *ClearConversationImpl {
	return &ClearConversationImpl{uow: uow}
}

// Execute removes every message in the assistant conversation.
func (uc *ClearConversationImpl) Execute(ctx context.Context) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	err := uc.uow.Execute(spanCtx, func(uow domain.UnitOfWork) error {
		return uow.Conversation().ClearMessages(spanCtx)
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitConversation is the initializer for the conversation use cases.
type InitConversation struct {
	Uow      domain.UnitOfWork             `resolve:""`
	ConvRepo domain.ConversationRepository `resolve:""`
}

// Initialize registers the conversation use cases in the dependency container.
func (i InitConversation) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListConversation](NewListConversationImpl(i.ConvRepo))
	depend.Register[ClearConversation](NewClearConversationImpl(i.Uow))
	return ctx, nil
}
