package usecases

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestRelayOutboxImpl_Execute(t *testing.T) {
	okEvent := domain.OutboxEvent{ID: uuid.New(), Topic: domain.OutboxTopic_ChatMessages, MaxRetries: 5}
	retryEvent := domain.OutboxEvent{ID: uuid.New(), Topic: domain.OutboxTopic_Records, RetryCount: 1, MaxRetries: 5}
	exhaustedEvent := domain.OutboxEvent{ID: uuid.New(), Topic: domain.OutboxTopic_Records, RetryCount: 4, MaxRetries: 5}

	outbox := &fakeOutboxRepo{pending: []domain.OutboxEvent{okEvent, retryEvent, exhaustedEvent}}
	uow := &fakeUow{outbox: outbox}
	publisher := &fakePublisher{errs: map[uuid.UUID]error{
		retryEvent.ID:     errors.New("broker unavailable"),
		exhaustedEvent.ID: errors.New("broker unavailable"),
	}}
	relay := NewRelayOutboxImpl(uow, publisher, log.New(io.Discard, "", 0))

	err := relay.Execute(context.Background())

	require.NoError(t, err)

	// Published events are removed from the outbox.
	require.Len(t, publisher.published, 1)
	assert.Equal(t, okEvent.ID, publisher.published[0].ID)
	assert.Equal(t, []uuid.UUID{okEvent.ID}, outbox.deletedIDs)

	// Failed events bump their retry count; the one out of budget is parked.
	require.Len(t, outbox.updated, 2)
	assert.Equal(t, retryEvent.ID, outbox.updated[0].ID)
	assert.Equal(t, domain.OutboxStatus_Pending, outbox.updated[0].Status)
	assert.Equal(t, 2, outbox.updated[0].RetryCount)
	require.NotNil(t, outbox.updated[0].LastError)
	assert.Equal(t, "broker unavailable", *outbox.updated[0].LastError)

	assert.Equal(t, exhaustedEvent.ID, outbox.updated[1].ID)
	assert.Equal(t, domain.OutboxStatus_Failed, outbox.updated[1].Status)
	assert.Equal(t, 5, outbox.updated[1].RetryCount)
}

func TestRelayOutboxImpl_Execute_EmptyBatch(t *testing.T) {
	outbox := &fakeOutboxRepo{}
	publisher := &fakePublisher{}
	relay := NewRelayOutboxImpl(&fakeUow{outbox: outbox}, publisher, log.New(io.Discard, "", 0))

	err := relay.Execute(context.Background())

	require.NoError(t, err)
	assert.Empty(t, publisher.published)
	assert.Empty(t, outbox.deletedIDs)
}

func TestRelayOutboxImpl_Execute_FetchFailure(t *testing.T) {
	outbox := &fakeOutboxRepo{fetchErr: errors.New("connection reset")}
	relay := NewRelayOutboxImpl(&fakeUow{outbox: outbox}, &fakePublisher{}, log.New(io.Discard, "", 0))

	err := relay.Execute(context.Background())

	assert.ErrorContains(t, err, "connection reset")
}
