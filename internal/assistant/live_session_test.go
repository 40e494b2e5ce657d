package assistant

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirahq/academy-crm/internal/domain"
)

func newTestSession(t *testing.T, stream domain.LiveStream, conv *fakeConvRepo) *LiveSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	session := &LiveSession{
		stream:      stream,
		registry:    NewToolManager(log.Default(), echoTool("list_students")),
		convRepo:    conv,
		logger:      log.Default(),
		timeProvide: fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		mode:        domain.AssistantMode_Authenticated,
		playback:    &playbackClock{},
		events:      make(chan SessionEvent, 256),
		state:       SessionState_Open,
		ctx:         ctx,
		cancel:      cancel,
	}
	return session
}

// collectEvents drains the session channel until it closes or the timeout
// expires.
func collectEvents(t *testing.T, session *LiveSession) []SessionEvent {
	t.Helper()
	var events []SessionEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-session.Events():
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatal("timeout waiting for session events")
		}
	}
}

func eventsOfType(events []SessionEvent, eventType SessionEventType) []SessionEvent {
	var matched []SessionEvent
	for _, event := range events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func TestLiveSession_AudioFramesScheduledBackToBack(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})

	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Audio, Audio: make([]byte, oneSecondBytes)}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Audio, Audio: make([]byte, oneSecondBytes/2)}
	close(stream.events)

	go session.receiveLoop()
	events := collectEvents(t, session)

	audio := eventsOfType(events, SessionEventType_Audio)
	require.Len(t, audio, 2)
	assert.Equal(t, time.Duration(0), audio[0].StartAt)
	assert.Equal(t, time.Second, audio[0].Duration)
	assert.Equal(t, audio[0].StartAt+audio[0].Duration, audio[1].StartAt)
}

func TestLiveSession_InterruptRewindsPlayback(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})

	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Audio, Audio: make([]byte, oneSecondBytes)}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Interrupted}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Audio, Audio: make([]byte, oneSecondBytes)}
	close(stream.events)

	go session.receiveLoop()
	events := collectEvents(t, session)

	require.Len(t, eventsOfType(events, SessionEventType_Interrupted), 1)
	audio := eventsOfType(events, SessionEventType_Audio)
	require.Len(t, audio, 2)
	// The frame after the interrupt starts from zero again.
	assert.Equal(t, time.Duration(0), audio[1].StartAt)
}

func TestLiveSession_TurnCompleteFlushesTranscripts(t *testing.T) {
	stream := newFakeLiveStream()
	conv := &fakeConvRepo{}
	session := newTestSession(t, stream, conv)

	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_InputTranscript, Text: "how much "}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_InputTranscript, Text: "does Amina owe?"}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_OutputTranscript, Text: "Amina owes $200."}
	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_TurnComplete}
	close(stream.events)

	go session.receiveLoop()
	events := collectEvents(t, session)

	partials := eventsOfType(events, SessionEventType_InputPartial)
	require.Len(t, partials, 2)
	assert.Equal(t, "how much ", partials[0].Text)
	assert.Equal(t, "how much does Amina owe?", partials[1].Text)

	messageEvents := eventsOfType(events, SessionEventType_Messages)
	require.NotEmpty(t, messageEvents)
	flushed := messageEvents[0].Messages
	require.Len(t, flushed, 2)
	assert.Equal(t, domain.ChatRole_User, flushed[0].Role)
	assert.Equal(t, "how much does Amina owe?", flushed[0].Text())
	assert.Equal(t, domain.ChatRole_Model, flushed[1].Role)
	assert.Equal(t, "Amina owes $200.", flushed[1].Text())

	// Both finalized messages plus the session end note were persisted.
	persisted := conv.snapshot()
	require.Len(t, persisted, 3)
	assert.Equal(t, domain.ChatRole_System, persisted[2].Role)
}

func TestLiveSession_ToolCallsDispatchedAndReturned(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})

	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_ToolCall, ToolCalls: []domain.ToolCall{
		{ID: "call-1", Name: "list_students"},
		{ID: "", Name: "list_students"},
	}}
	close(stream.events)

	go session.receiveLoop()
	events := collectEvents(t, session)

	// One status line per dispatched call; the empty-ID call is skipped.
	require.Len(t, eventsOfType(events, SessionEventType_ToolStatus), 1)

	stream.mu.Lock()
	defer stream.mu.Unlock()
	require.Len(t, stream.sentResponses, 1)
	require.Len(t, stream.sentResponses[0], 1)
	assert.Equal(t, "call-1", stream.sentResponses[0][0].ID)
}

func TestLiveSession_GuestModeNeverDispatchesToolCalls(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})
	session.mode = domain.AssistantMode_Guest

	stream.events <- domain.LiveEvent{Type: domain.LiveEventType_ToolCall, ToolCalls: []domain.ToolCall{
		{ID: "call-1", Name: "list_students"},
	}}
	close(stream.events)

	go session.receiveLoop()
	events := collectEvents(t, session)

	// The call is dropped outright: no status line, no dispatch, nothing sent
	// back on the stream.
	assert.Empty(t, eventsOfType(events, SessionEventType_ToolStatus))
	stream.mu.Lock()
	defer stream.mu.Unlock()
	assert.Empty(t, stream.sentResponses)
}

func TestLiveSession_StopDuringAudioBurstClosesCleanly(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})

	// Keep the receive loop busy emitting while Stop arrives from another
	// goroutine. The event channel must only close once the loop has drained.
	go func() {
		for {
			select {
			case stream.events <- domain.LiveEvent{Type: domain.LiveEventType_Audio, Audio: make([]byte, 480)}:
			case <-session.ctx.Done():
				return
			}
		}
	}()

	go session.receiveLoop()
	go session.Stop()

	events := collectEvents(t, session)
	require.NotEmpty(t, events)
	assert.Equal(t, SessionEventType_Closed, events[len(events)-1].Type)
	assert.Equal(t, SessionState_Idle, session.State())
}

func TestLiveSession_StopIsIdempotent(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})

	go session.receiveLoop()
	session.Stop()
	session.Stop()

	events := collectEvents(t, session)
	require.NotEmpty(t, events)
	assert.Equal(t, SessionEventType_Closed, events[len(events)-1].Type)
	assert.Equal(t, 1, stream.closeCount())
	assert.Equal(t, SessionState_Idle, session.State())
}

func TestLiveSession_RecvErrorClassified(t *testing.T) {
	stream := newFakeLiveStream()
	stream.recvErr = domain.NewGatewayErr(domain.GatewayErrCause_Credential, "API key rejected")
	conv := &fakeConvRepo{}
	session := newTestSession(t, stream, conv)

	close(stream.events)
	go session.receiveLoop()

	events := collectEvents(t, session)
	errorEvents := eventsOfType(events, SessionEventType_Error)
	require.Len(t, errorEvents, 1)
	assert.Equal(t, domain.GatewayErrCause_Credential, errorEvents[0].Cause)
	assert.Equal(t, SessionEventType_Closed, events[len(events)-1].Type)

	// The session end note records the failure.
	persisted := conv.snapshot()
	require.Len(t, persisted, 1)
	assert.Equal(t, domain.ChatRole_System, persisted[0].Role)
	assert.Contains(t, persisted[0].Text(), "API key rejected")
}

func TestLiveSession_SendAudioRequiresOpenState(t *testing.T) {
	stream := newFakeLiveStream()
	session := newTestSession(t, stream, &fakeConvRepo{})
	session.state = SessionState_Closing

	err := session.SendAudio([]byte{0x01})
	assert.Error(t, err)

	err = session.SendText("hello")
	assert.Error(t, err)
}
