// Package gemini adapts the Google Gemini API (google.golang.org/genai) to
// the domain ModelGateway and Embedder interfaces, covering single-shot
// request/response turns, duplex live voice sessions and text embeddings.
package gemini

import (
	"context"
	"fmt"
	"log"

	"github.com/cleitonmarx/symbiont/depend"
	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
)

// InitModelGateway initializes the Gemini client and registers the
// ModelGateway and Embedder dependencies.
type InitModelGateway struct {
	Logger     *log.Logger `resolve:""`
	APIKey     string      `config:"GEMINI_API_KEY"`
	TurnModel  string      `config:"GEMINI_TURN_MODEL" default:"gemini-2.0-flash"`
	LiveModel  string      `config:"GEMINI_LIVE_MODEL" default:"gemini-2.0-flash-live-001"`
	EmbedModel string      `config:"GEMINI_EMBED_MODEL" default:"text-embedding-004"`
}

// Initialize creates the Gemini client and registers the adapters in the
// dependency container.
func (i InitModelGateway) Initialize(ctx context.Context) (context.Context, error) {
	if i.APIKey == "" {
		return ctx, domain.NewGatewayErr(domain.GatewayErrCause_Credential, "GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  i.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to create gemini client: %w", err)
	}

	depend.Register[domain.ModelGateway](NewGateway(client, i.TurnModel, i.LiveModel, i.Logger))
	depend.Register[domain.Embedder](NewEmbedder(client, i.EmbedModel))

	return ctx, nil
}
