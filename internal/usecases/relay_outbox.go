package usecases

import (
	"context"
	"log"

	"github.com/cleitonmarx/symbiont/depend"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

// How many pending outbox events one relay pass drains.
const OUTBOX_RELAY_BATCH_SIZE = 100

// RelayOutbox defines the interface for relaying outbox events.
type RelayOutbox interface {
	// Execute processes pending outbox events and relays them.
	Execute(ctx context.Context) error
}

// RelayOutboxImpl publishes pending outbox events to the event bus.
type RelayOutboxImpl struct {
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	logger    *log.Logger
}

// NewRelayOutboxImpl creates a new instance of RelayOutboxImpl.
func NewRelayOutboxImpl(uow domain.UnitOfWork, publisher domain.EventPublisher, logger *log.Logger) RelayOutboxImpl {
	return RelayOutboxImpl{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute drains one batch of pending outbox events. A failed event is
// retried on a later pass until its retry budget runs out.
func (r RelayOutboxImpl) Execute(ctx context.Context) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	err := r.uow.Execute(spanCtx, func(uow domain.UnitOfWork) error {
		events, err := uow.Outbox().FetchPendingEvents(spanCtx, OUTBOX_RELAY_BATCH_SIZE)
		if err != nil {
			return err
		}

		for _, event := range events {
			if err := r.relayEvent(spanCtx, uow, event); err != nil {
				r.logger.Printf("relay failed for event %s: %v", event.ID, err)
			}
		}
		return nil
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

func (r RelayOutboxImpl) relayEvent(ctx context.Context, uow domain.UnitOfWork, event domain.OutboxEvent) error {
	if err := r.publisher.PublishEvent(ctx, event); err != nil {
		status := domain.OutboxStatus_Pending
		if event.RetryCount+1 >= event.MaxRetries {
			status = domain.OutboxStatus_Failed
		}
		RecordOutboxRelayEvent(ctx, string(status))
		return uow.Outbox().UpdateEvent(ctx, event.ID, status, event.RetryCount+1, err.Error())
	}
	RecordOutboxRelayEvent(ctx, "published")
	return uow.Outbox().DeleteEvent(ctx, event.ID)
}

// InitRelayOutbox initializes the RelayOutbox use case and registers it in the
// dependency container.
type InitRelayOutbox struct {
	Uow       domain.UnitOfWork     `resolve:""`
	Logger    *log.Logger           `resolve:""`
	Publisher domain.EventPublisher `resolve:""`
}

func (i InitRelayOutbox) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[RelayOutbox](NewRelayOutboxImpl(i.Uow, i.Publisher, i.Logger))
	return ctx, nil
}
