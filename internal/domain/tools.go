package domain

import "context"

// ToolParamType is the advertised type of a tool parameter.
type ToolParamType string

const (
	ToolParamType_String  ToolParamType = "string"
	ToolParamType_Number  ToolParamType = "number"
	ToolParamType_Boolean ToolParamType = "boolean"
	ToolParamType_Enum    ToolParamType = "enum"
)

// ToolParam describes one parameter of a tool. Parameter order is part of the
// advertised schema, so definitions keep parameters in a slice rather than a map.
type ToolParam struct {
	Name        string
	Type        ToolParamType
	Description string
	Required    bool
	EnumValues  []string
}

// ToolDefinition describes a callable operation advertised to the model.
// Definitions are immutable and declared once at process start.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  []ToolParam
}

// ToolCall is a model-issued invocation of a registered tool. The ID is an
// opaque correlation token that must survive dispatch unchanged; calls with an
// empty ID are never dispatched.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResponse is the outcome of dispatching a single ToolCall. Exactly one
// response is produced per call with a non-empty ID: either Result is set, or
// Error carries a short human-readable failure description.
type ToolResponse struct {
	ID     string
	Name   string
	Result map[string]any
	Error  string
}

// Tool is a single registered assistant operation.
type Tool interface {
	// Definition returns the advertised tool schema.
	Definition() ToolDefinition
	// StatusMessage returns a user-friendly status line shown while the tool runs.
	StatusMessage() string
	// Call executes the tool. Implementations return failures inside the
	// response rather than panicking; store errors become response errors.
	Call(ctx context.Context, call ToolCall) ToolResponse
}

// ToolRegistry dispatches model-issued tool calls to registered tools.
type ToolRegistry interface {
	// List returns every registered tool definition in stable order.
	List() []ToolDefinition
	// Dispatch executes a batch of tool calls sequentially, preserving order.
	// Calls with an empty ID are skipped; one call failing never aborts its
	// siblings.
	Dispatch(ctx context.Context, calls []ToolCall) []ToolResponse
	// StatusMessage returns a friendly status line for the given tool name.
	StatusMessage(toolName string) string
}
