package gemini

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"google.golang.org/genai"

	"github.com/mirahq/academy-crm/internal/domain"
	"github.com/mirahq/academy-crm/internal/usecases"
)

const liveInputMIMEType = "audio/pcm;rate=16000"

// liveStream implements domain.LiveStream over an open Gemini live session.
// One Gemini server message can carry several logical events, so Recv drains
// an internal queue before reading from the wire again.
type liveStream struct {
	session  *genai.Session
	logger   *log.Logger
	pending  []domain.LiveEvent
	closeOne sync.Once
	closeErr error
}

func newLiveStream(session *genai.Session, logger *log.Logger) *liveStream {
	return &liveStream{
		session: session,
		logger:  logger,
	}
}

// SendAudio pushes one microphone PCM frame to the session.
func (ls *liveStream) SendAudio(ctx context.Context, pcm []byte) error {
	usecases.RecordLiveAudioFrame(ctx, "input")
	err := ls.session.SendRealtimeInput(genai.LiveRealtimeInput{
		Media: &genai.Blob{
			MIMEType: liveInputMIMEType,
			Data:     pcm,
		},
	})
	if err != nil {
		return classifyErr(err)
	}
	return nil
}

// SendText injects a typed user message into the running session.
func (ls *liveStream) SendText(ctx context.Context, text string) error {
	err := ls.session.SendClientContent(genai.LiveClientContentInput{
		Turns: []*genai.Content{
			genai.NewContentFromText(text, genai.RoleUser),
		},
	})
	if err != nil {
		return classifyErr(err)
	}
	return nil
}

// SendToolResponses returns dispatched tool results on the stream.
func (ls *liveStream) SendToolResponses(ctx context.Context, responses []domain.ToolResponse) error {
	err := ls.session.SendToolResponse(genai.LiveToolResponseInput{
		FunctionResponses: toFunctionResponses(responses),
	})
	if err != nil {
		return classifyErr(err)
	}
	return nil
}

// Recv blocks for the next inbound event.
func (ls *liveStream) Recv(ctx context.Context) (domain.LiveEvent, error) {
	for len(ls.pending) == 0 {
		message, err := ls.session.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return domain.LiveEvent{}, io.EOF
			}
			return domain.LiveEvent{}, classifyErr(err)
		}
		ls.pending = mapServerMessage(ctx, message)
	}

	event := ls.pending[0]
	ls.pending = ls.pending[1:]
	return event, nil
}

// Close terminates the stream. Safe to call more than once.
func (ls *liveStream) Close() error {
	ls.closeOne.Do(func() {
		ls.closeErr = ls.session.Close()
	})
	return ls.closeErr
}

// mapServerMessage flattens one Gemini server message into the ordered list
// of domain events it carries.
func mapServerMessage(ctx context.Context, message *genai.LiveServerMessage) []domain.LiveEvent {
	var events []domain.LiveEvent

	if message.ToolCall != nil && len(message.ToolCall.FunctionCalls) > 0 {
		calls := make([]domain.ToolCall, 0, len(message.ToolCall.FunctionCalls))
		for _, call := range message.ToolCall.FunctionCalls {
			calls = append(calls, domain.ToolCall{
				ID:   call.ID,
				Name: call.Name,
				Args: call.Args,
			})
		}
		events = append(events, domain.LiveEvent{
			Type:      domain.LiveEventType_ToolCall,
			ToolCalls: calls,
		})
	}

	content := message.ServerContent
	if content == nil {
		return events
	}

	// An interruption invalidates the audio in the same message, but a
	// TurnComplete travelling with it must still come through.
	if content.Interrupted {
		events = append(events, domain.LiveEvent{Type: domain.LiveEventType_Interrupted})
	}

	if content.InputTranscription != nil && content.InputTranscription.Text != "" {
		events = append(events, domain.LiveEvent{
			Type: domain.LiveEventType_InputTranscript,
			Text: content.InputTranscription.Text,
		})
	}
	if content.OutputTranscription != nil && content.OutputTranscription.Text != "" {
		events = append(events, domain.LiveEvent{
			Type: domain.LiveEventType_OutputTranscript,
			Text: content.OutputTranscription.Text,
		})
	}

	if content.ModelTurn != nil && !content.Interrupted {
		for _, part := range content.ModelTurn.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			usecases.RecordLiveAudioFrame(ctx, "output")
			events = append(events, domain.LiveEvent{
				Type:  domain.LiveEventType_Audio,
				Audio: part.InlineData.Data,
			})
		}
	}

	if content.TurnComplete {
		events = append(events, domain.LiveEvent{Type: domain.LiveEventType_TurnComplete})
	}

	return events
}
