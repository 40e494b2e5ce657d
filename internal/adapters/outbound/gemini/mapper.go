package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
)

// toGenaiContents maps conversation messages to Gemini contents. System
// messages are folded into the user role; the Gemini history only accepts
// user and model turns.
func toGenaiContents(messages []domain.ConversationMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == domain.ChatRole_Model {
			role = genai.RoleModel
		}

		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch part.Kind {
			case domain.MessagePartKind_Text:
				parts = append(parts, genai.NewPartFromText(part.Value))
			case domain.MessagePartKind_Image:
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						MIMEType: "image/jpeg",
						Data:     []byte(part.Value),
					},
				})
			}
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: string(role), Parts: parts})
	}
	return contents
}

// toGenaiTools maps the tool catalog to one Gemini tool carrying every
// function declaration. Returns nil for an empty catalog so guest sessions
// advertise nothing.
func toGenaiTools(tools []domain.ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGenaiSchema(tool.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func toGenaiSchema(params []domain.ToolParam) *genai.Schema {
	if len(params) == 0 {
		return nil
	}

	properties := make(map[string]*genai.Schema, len(params))
	var required []string
	for _, param := range params {
		prop := &genai.Schema{Description: param.Description}
		switch param.Type {
		case domain.ToolParamType_Number:
			prop.Type = genai.TypeNumber
		case domain.ToolParamType_Boolean:
			prop.Type = genai.TypeBoolean
		case domain.ToolParamType_Enum:
			prop.Type = genai.TypeString
			prop.Enum = param.EnumValues
		default:
			prop.Type = genai.TypeString
		}
		properties[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func fromFunctionCalls(calls []*genai.FunctionCall) []domain.ToolCall {
	toolCalls := make([]domain.ToolCall, 0, len(calls))
	for _, call := range calls {
		toolCalls = append(toolCalls, domain.ToolCall{
			ID:   call.ID,
			Name: call.Name,
			Args: call.Args,
		})
	}
	return toolCalls
}

// toFunctionResponses maps dispatched tool results back to the wire. A
// response-level error travels inside the response payload; the model reads
// it like any other result field.
func toFunctionResponses(responses []domain.ToolResponse) []*genai.FunctionResponse {
	out := make([]*genai.FunctionResponse, 0, len(responses))
	for _, resp := range responses {
		payload := resp.Result
		if resp.Error != "" {
			payload = map[string]any{"error": resp.Error}
		}
		out = append(out, &genai.FunctionResponse{
			ID:       resp.ID,
			Name:     resp.Name,
			Response: payload,
		})
	}
	return out
}

// classifyErr maps a Gemini API failure to a domain GatewayErr so callers can
// distinguish credential problems from plain transport trouble.
func classifyErr(err error) *domain.GatewayErr {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.NewGatewayErr(domain.GatewayErrCause_Credential,
				fmt.Sprintf("model rejected the API credential: %s", apiErr.Message))
		}
	}
	return domain.NewGatewayErr(domain.GatewayErrCause_Transport, err.Error())
}
