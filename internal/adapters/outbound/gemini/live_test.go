package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestMapServerMessage(t *testing.T) {
	tests := map[string]struct {
		message  *genai.LiveServerMessage
		expected []domain.LiveEventType
	}{
		"tool-call-then-content": {
			message: &genai.LiveServerMessage{
				ToolCall: &genai.LiveServerToolCall{
					FunctionCalls: []*genai.FunctionCall{{ID: "call-1", Name: "listStudents"}},
				},
				ServerContent: &genai.LiveServerContent{
					OutputTranscription: &genai.Transcription{Text: "Here they are."},
				},
			},
			expected: []domain.LiveEventType{
				domain.LiveEventType_ToolCall,
				domain.LiveEventType_OutputTranscript,
			},
		},
		"interrupt-keeps-turn-complete": {
			message: &genai.LiveServerMessage{
				ServerContent: &genai.LiveServerContent{
					Interrupted:  true,
					TurnComplete: true,
				},
			},
			expected: []domain.LiveEventType{
				domain.LiveEventType_Interrupted,
				domain.LiveEventType_TurnComplete,
			},
		},
		"interrupt-discards-stale-audio": {
			message: &genai.LiveServerMessage{
				ServerContent: &genai.LiveServerContent{
					Interrupted: true,
					ModelTurn: &genai.Content{
						Parts: []*genai.Part{
							{InlineData: &genai.Blob{Data: []byte{0x01, 0x02}}},
						},
					},
				},
			},
			expected: []domain.LiveEventType{domain.LiveEventType_Interrupted},
		},
		"turn-complete-after-audio": {
			message: &genai.LiveServerMessage{
				ServerContent: &genai.LiveServerContent{
					ModelTurn: &genai.Content{
						Parts: []*genai.Part{
							{InlineData: &genai.Blob{Data: []byte{0x01}}},
						},
					},
					TurnComplete: true,
				},
			},
			expected: []domain.LiveEventType{
				domain.LiveEventType_Audio,
				domain.LiveEventType_TurnComplete,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			events := mapServerMessage(context.Background(), tt.message)
			require.Len(t, events, len(tt.expected))
			for i, eventType := range tt.expected {
				assert.Equal(t, eventType, events[i].Type)
			}
		})
	}
}
