package domain

import "context"

// ContextBuilder assembles the system instruction for a model turn.
type ContextBuilder interface {
	// BuildSystemContext returns the system instruction for the given mode.
	// userText seeds knowledge retrieval and may be empty. In guest mode the
	// instruction forbids tool use; callers must additionally send an empty
	// tool catalog so the restriction does not depend on the model honoring
	// the text.
	BuildSystemContext(ctx context.Context, mode AssistantMode, userText string) (string, error)
}
