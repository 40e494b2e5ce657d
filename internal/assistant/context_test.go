package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

func newTestContextBuilder(memory *fakeMemoryRepo, knowledge *fakeKnowledgeRepo) ContextBuilderImpl {
	return NewContextBuilderImpl(
		memory,
		knowledge,
		fakeEmbedder{},
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func TestContextBuilder_AuthenticatedIncludesFactsAndKnowledge(t *testing.T) {
	memory := &fakeMemoryRepo{facts: []domain.MemoryFact{
		{ID: uuid.New(), Content: "The operator prefers replies in Somali."},
		{ID: uuid.New(), Content: "Fee reminders go out on Mondays."},
	}}
	knowledge := &fakeKnowledgeRepo{snippets: []domain.KnowledgeSnippet{
		{ID: uuid.New(), Title: "Refund policy", Content: "Refunds within 14 days of enrollment."},
	}}

	builder := newTestContextBuilder(memory, knowledge)
	instruction, err := builder.BuildSystemContext(context.Background(), domain.AssistantMode_Authenticated, "what is the refund policy?")
	require.NoError(t, err)

	assert.Contains(t, instruction, "2026-03-01")
	assert.Contains(t, instruction, "The operator prefers replies in Somali.")
	assert.Contains(t, instruction, "Fee reminders go out on Mondays.")
	assert.Contains(t, instruction, "Refund policy")
	assert.Contains(t, instruction, "Refunds within 14 days of enrollment.")
}

func TestContextBuilder_EmptyUserTextSkipsKnowledgeSearch(t *testing.T) {
	knowledge := &fakeKnowledgeRepo{snippets: []domain.KnowledgeSnippet{
		{ID: uuid.New(), Title: "Refund policy", Content: "Refunds within 14 days of enrollment."},
	}}

	builder := newTestContextBuilder(&fakeMemoryRepo{}, knowledge)
	instruction, err := builder.BuildSystemContext(context.Background(), domain.AssistantMode_Authenticated, "")
	require.NoError(t, err)

	assert.NotContains(t, instruction, "Refund policy")
}

func TestContextBuilder_GuestCarriesNoCRMData(t *testing.T) {
	memory := &fakeMemoryRepo{facts: []domain.MemoryFact{
		{ID: uuid.New(), Content: "The operator prefers replies in Somali."},
	}}
	knowledge := &fakeKnowledgeRepo{snippets: []domain.KnowledgeSnippet{
		{ID: uuid.New(), Title: "Refund policy", Content: "Refunds within 14 days of enrollment."},
	}}

	builder := newTestContextBuilder(memory, knowledge)
	instruction, err := builder.BuildSystemContext(context.Background(), domain.AssistantMode_Guest, "what is the refund policy?")
	require.NoError(t, err)

	assert.Contains(t, instruction, "not")
	assert.Contains(t, instruction, "2026-03-01")
	assert.NotContains(t, instruction, "The operator prefers replies in Somali.")
	assert.NotContains(t, instruction, "Refund policy")
}

func TestContextBuilder_EmbedderFailureSurfaces(t *testing.T) {
	builder := NewContextBuilderImpl(
		&fakeMemoryRepo{},
		&fakeKnowledgeRepo{},
		fakeEmbedder{err: assert.AnError},
		fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	)

	_, err := builder.BuildSystemContext(context.Background(), domain.AssistantMode_Authenticated, "hello")
	assert.Error(t, err)
}
