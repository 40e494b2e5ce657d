package domain

import "context"

// Audio wire format shared between the live relay and the Model Gateway:
// mono PCM, 16-bit signed little-endian samples.
const (
	// LiveInputSampleRate is the microphone capture rate in Hz.
	LiveInputSampleRate = 16000
	// LiveOutputSampleRate is the assistant audio playback rate in Hz.
	LiveOutputSampleRate = 24000
	// LiveAudioChannels is the channel count on both directions.
	LiveAudioChannels = 1
	// LiveBytesPerSample is the sample width of the PCM encoding.
	LiveBytesPerSample = 2
)

// TurnRequest is a single-shot generate-with-tools request.
type TurnRequest struct {
	SystemInstruction string
	Messages          []ConversationMessage
	// Tools advertised for this turn. Empty in guest mode: the model cannot
	// issue calls against an empty catalog.
	Tools []ToolDefinition
}

// TurnResult is the gateway's answer to a TurnRequest: either plain text or a
// non-empty list of tool calls, never both.
type TurnResult struct {
	Text      string
	ToolCalls []ToolCall
}

// LiveConfig opens a duplex voice session.
type LiveConfig struct {
	SystemInstruction string
	Tools             []ToolDefinition
	Voice             string
}

// LiveEventType tags an inbound event on the live stream.
type LiveEventType string

const (
	// LiveEventType_Audio carries a playable PCM frame at LiveOutputSampleRate.
	LiveEventType_Audio LiveEventType = "audio"
	// LiveEventType_InputTranscript carries a transcription delta of user speech.
	LiveEventType_InputTranscript LiveEventType = "input_transcript"
	// LiveEventType_OutputTranscript carries a transcription delta of model speech.
	LiveEventType_OutputTranscript LiveEventType = "output_transcript"
	// LiveEventType_Interrupted signals barge-in: all scheduled playback stops.
	LiveEventType_Interrupted LiveEventType = "interrupted"
	// LiveEventType_TurnComplete signals the model finished its turn.
	LiveEventType_TurnComplete LiveEventType = "turn_complete"
	// LiveEventType_ToolCall carries model-issued tool calls.
	LiveEventType_ToolCall LiveEventType = "tool_call"
)

// LiveEvent is one inbound event from the gateway stream. Exactly the fields
// implied by Type are set.
type LiveEvent struct {
	Type      LiveEventType
	Audio     []byte
	Text      string
	ToolCalls []ToolCall
}

// LiveStream is an open duplex voice session with the model.
type LiveStream interface {
	// SendAudio pushes one microphone PCM frame (16 kHz mono s16le). The
	// gateway adapter base64-encodes the frame for transmission.
	SendAudio(ctx context.Context, pcm []byte) error
	// SendText injects a typed user message into the running session.
	SendText(ctx context.Context, text string) error
	// SendToolResponses returns dispatched tool results on the stream.
	SendToolResponses(ctx context.Context, responses []ToolResponse) error
	// Recv blocks for the next inbound event. It returns io.EOF after a
	// clean remote close and a *GatewayErr on transport failure.
	Recv(ctx context.Context) (LiveEvent, error)
	// Close terminates the stream. Safe to call more than once.
	Close() error
}

// ModelGateway is the generative-model capability consumed by the assistant.
type ModelGateway interface {
	// GenerateTurn performs one request/response exchange with tools attached.
	GenerateTurn(ctx context.Context, req TurnRequest) (TurnResult, error)
	// ConnectLive opens a persistent duplex voice session.
	ConnectLive(ctx context.Context, cfg LiveConfig) (LiveStream, error)
}
