package gemini

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/telemetry"
)

// Embedder implements domain.Embedder using the Gemini embedding models.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client, model string) Embedder {
	return Embedder{
		client: client,
		model:  model,
	}
}

// EmbedText turns text into a vector suitable for similarity search.
func (e Embedder) EmbedText(ctx context.Context, text string) (pgvector.Vector, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("model", e.model),
	))
	defer span.End()

	resp, err := e.client.Models.EmbedContent(spanCtx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		gerr := classifyErr(err)
		telemetry.RecordErrorAndStatus(span, gerr)
		return pgvector.Vector{}, gerr
	}

	if len(resp.Embeddings) == 0 {
		gerr := domain.NewGatewayErr(domain.GatewayErrCause_Transport, "embedding response is empty")
		telemetry.RecordErrorAndStatus(span, gerr)
		return pgvector.Vector{}, gerr
	}

	return pgvector.NewVector(resp.Embeddings[0].Values), nil
}
