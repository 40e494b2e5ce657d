package assistant

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"go.yaml.in/yaml/v3"

	"github.com/mirahq/academy-crm/internal/domain"
)

//go:embed prompts/mira.yml
var miraPrompt embed.FS

// maxKnowledgeSnippets caps how much reference material one turn carries.
const maxKnowledgeSnippets = 3

// promptTemplates holds the base instructions loaded from the embedded prompt
// file. Both templates take the current date as their single format argument.
type promptTemplates struct {
	System string `yaml:"system"`
	Guest  string `yaml:"guest"`
}

// ContextBuilderImpl builds the instruction from the embedded base prompt plus
// a fresh fetch of memory facts and knowledge snippets on every call. Nothing
// is cached, so facts saved seconds ago are visible in the next turn.
type ContextBuilderImpl struct {
	memoryRepo    domain.MemoryRepository
	knowledgeRepo domain.KnowledgeRepository
	embedder      domain.Embedder
	timeProvider  domain.CurrentTimeProvider
}

// NewContextBuilderImpl creates a new instance of ContextBuilderImpl.
func NewContextBuilderImpl(
	memoryRepo domain.MemoryRepository,
	knowledgeRepo domain.KnowledgeRepository,
	embedder domain.Embedder,
	timeProvider domain.CurrentTimeProvider,
) ContextBuilderImpl {
	return ContextBuilderImpl{
		memoryRepo:    memoryRepo,
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
		timeProvider:  timeProvider,
	}
}

// BuildSystemContext assembles the system instruction. In guest mode the
// instruction forbids tool use and carries no CRM data; callers must also send
// an empty tool catalog to the gateway so the restriction does not depend on
// the model honoring the text.
func (cb ContextBuilderImpl) BuildSystemContext(ctx context.Context, mode domain.AssistantMode, userText string) (string, error) {
	templates, err := loadPromptTemplates()
	if err != nil {
		return "", err
	}

	today := cb.timeProvider.Now().Format(time.DateOnly)
	if mode == domain.AssistantMode_Guest {
		return fmt.Sprintf(templates.Guest, today), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, templates.System, today)

	facts, err := cb.memoryRepo.ListFacts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load memory facts: %w", err)
	}
	if len(facts) > 0 {
		b.WriteString("\nThings you remembered from earlier conversations:\n")
		for _, fact := range facts {
			fmt.Fprintf(&b, "- %s\n", fact.Content)
		}
	}

	snippets, err := cb.fetchKnowledge(ctx, userText)
	if err != nil {
		return "", err
	}
	if len(snippets) > 0 {
		b.WriteString("\nAcademy reference material relevant to this conversation:\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "## %s\n%s\n", s.Title, s.Content)
		}
	}

	return b.String(), nil
}

func (cb ContextBuilderImpl) fetchKnowledge(ctx context.Context, userText string) ([]domain.KnowledgeSnippet, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, nil
	}
	embedding, err := cb.embedder.EmbedText(ctx, userText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	snippets, err := cb.knowledgeRepo.SearchSimilar(ctx, embedding, maxKnowledgeSnippets)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge: %w", err)
	}
	return snippets, nil
}

func loadPromptTemplates() (promptTemplates, error) {
	file, err := miraPrompt.Open("prompts/mira.yml")
	if err != nil {
		return promptTemplates{}, fmt.Errorf("failed to open prompt file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	templates := promptTemplates{}
	if err := yaml.NewDecoder(file).Decode(&templates); err != nil {
		return promptTemplates{}, fmt.Errorf("failed to decode prompt file: %w", err)
	}
	return templates, nil
}

// InitContextBuilder wires the context builder into the dependency container.
type InitContextBuilder struct {
	MemoryRepo    domain.MemoryRepository    `resolve:""`
	KnowledgeRepo domain.KnowledgeRepository `resolve:""`
	Embedder      domain.Embedder            `resolve:""`
	TimeProvider  domain.CurrentTimeProvider `resolve:""`
}

func (i InitContextBuilder) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.ContextBuilder](NewContextBuilderImpl(
		i.MemoryRepo,
		i.KnowledgeRepo,
		i.Embedder,
		i.TimeProvider,
	))
	return ctx, nil
}
