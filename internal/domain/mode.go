package domain

// AssistantMode gates what the assistant may do for the current caller.
type AssistantMode string

const (
	// AssistantMode_Authenticated grants the full tool catalog and CRM context.
	AssistantMode_Authenticated AssistantMode = "authenticated"
	// AssistantMode_Guest restricts the assistant to general conversation. No
	// tools are advertised to the model and none are ever dispatched.
	AssistantMode_Guest AssistantMode = "guest"
)
