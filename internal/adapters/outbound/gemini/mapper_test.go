package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestToGenaiTools(t *testing.T) {
	tests := map[string]struct {
		tools    []domain.ToolDefinition
		validate func(t *testing.T, got []*genai.Tool)
	}{
		"empty-catalog-advertises-nothing": {
			tools: nil,
			validate: func(t *testing.T, got []*genai.Tool) {
				assert.Nil(t, got)
			},
		},
		"declarations-preserve-order": {
			tools: []domain.ToolDefinition{
				{Name: "listStudents"},
				{Name: "addStudent"},
				{Name: "recordPayment"},
			},
			validate: func(t *testing.T, got []*genai.Tool) {
				assert.Len(t, got, 1)
				assert.Len(t, got[0].FunctionDeclarations, 3)
				assert.Equal(t, "listStudents", got[0].FunctionDeclarations[0].Name)
				assert.Equal(t, "addStudent", got[0].FunctionDeclarations[1].Name)
				assert.Equal(t, "recordPayment", got[0].FunctionDeclarations[2].Name)
			},
		},
		"enum-parameter-maps-to-string-with-values": {
			tools: []domain.ToolDefinition{
				{
					Name: "recordPayment",
					Parameters: []domain.ToolParam{
						{Name: "name", Type: domain.ToolParamType_String, Required: true},
						{Name: "amount", Type: domain.ToolParamType_Number, Required: true},
						{Name: "method", Type: domain.ToolParamType_Enum, EnumValues: []string{"Cash", "Card", "Transfer"}},
					},
				},
			},
			validate: func(t *testing.T, got []*genai.Tool) {
				schema := got[0].FunctionDeclarations[0].Parameters
				assert.Equal(t, genai.TypeObject, schema.Type)
				assert.Equal(t, []string{"name", "amount"}, schema.Required)
				assert.Equal(t, genai.TypeNumber, schema.Properties["amount"].Type)
				assert.Equal(t, genai.TypeString, schema.Properties["method"].Type)
				assert.Equal(t, []string{"Cash", "Card", "Transfer"}, schema.Properties["method"].Enum)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tt.validate(t, toGenaiTools(tt.tools))
		})
	}
}

func TestToGenaiContents(t *testing.T) {
	messages := []domain.ConversationMessage{
		domain.NewTextMessage(domain.ChatRole_User, "hello"),
		domain.NewTextMessage(domain.ChatRole_Model, "hi there"),
		domain.NewTextMessage(domain.ChatRole_System, "voice session ended"),
	}

	contents := toGenaiContents(messages)
	assert.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	// System notices ride along as user turns.
	assert.Equal(t, string(genai.RoleUser), contents[2].Role)
}

func TestToFunctionResponses(t *testing.T) {
	responses := []domain.ToolResponse{
		{ID: "call-1", Name: "listStudents", Result: map[string]any{"result": "ok"}},
		{ID: "call-2", Name: "frobnicate", Error: "Unknown function"},
	}

	got := toFunctionResponses(responses)
	assert.Len(t, got, 2)
	assert.Equal(t, map[string]any{"result": "ok"}, got[0].Response)
	assert.Equal(t, map[string]any{"error": "Unknown function"}, got[1].Response)
	assert.Equal(t, "call-2", got[1].ID)
}

func TestFromFunctionCalls(t *testing.T) {
	calls := fromFunctionCalls([]*genai.FunctionCall{
		{ID: "call-1", Name: "listStudents", Args: map[string]any{"page": 1}},
		{ID: "call-2", Name: "deleteStudent", Args: map[string]any{"name": "ami"}},
	})

	assert.Equal(t, []domain.ToolCall{
		{ID: "call-1", Name: "listStudents", Args: map[string]any{"page": 1}},
		{ID: "call-2", Name: "deleteStudent", Args: map[string]any{"name": "ami"}},
	}, calls)
}

func TestClassifyErr(t *testing.T) {
	tests := map[string]struct {
		err           error
		expectedCause domain.GatewayErrCause
	}{
		"unauthorized-is-credential": {
			err:           genai.APIError{Code: 401, Message: "API key not valid"},
			expectedCause: domain.GatewayErrCause_Credential,
		},
		"forbidden-is-credential": {
			err:           genai.APIError{Code: 403, Message: "permission denied"},
			expectedCause: domain.GatewayErrCause_Credential,
		},
		"server-error-is-transport": {
			err:           genai.APIError{Code: 500, Message: "internal"},
			expectedCause: domain.GatewayErrCause_Transport,
		},
		"plain-error-is-transport": {
			err:           errors.New("connection reset"),
			expectedCause: domain.GatewayErrCause_Transport,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			gerr := classifyErr(tt.err)
			assert.Equal(t, tt.expectedCause, gerr.Cause)
		})
	}
}
