package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cleitonmarx/symbiont/depend"

	"github.com/mirahq/academy-crm/internal/domain"
)

// SessionState is the lifecycle state of the live voice session.
type SessionState string

const (
	SessionState_Idle    SessionState = "idle"
	SessionState_Opening SessionState = "opening"
	SessionState_Open    SessionState = "open"
	SessionState_Closing SessionState = "closing"
)

// SessionEventType tags an outbound event toward the connected client.
type SessionEventType string

const (
	// SessionEventType_Audio carries one scheduled playback frame.
	SessionEventType_Audio SessionEventType = "audio"
	// SessionEventType_InputPartial carries the live user-speech transcript so far.
	SessionEventType_InputPartial SessionEventType = "input_partial"
	// SessionEventType_Messages carries finalized conversation messages.
	SessionEventType_Messages SessionEventType = "messages"
	// SessionEventType_Interrupted signals that all scheduled playback must stop.
	SessionEventType_Interrupted SessionEventType = "interrupted"
	// SessionEventType_ToolStatus carries a friendly line while a tool runs.
	SessionEventType_ToolStatus SessionEventType = "tool_status"
	// SessionEventType_Error carries a classified session failure.
	SessionEventType_Error SessionEventType = "error"
	// SessionEventType_Closed is the final event on the channel.
	SessionEventType_Closed SessionEventType = "closed"
)

// SessionEvent is one event on a live session's outbound channel.
type SessionEvent struct {
	Type     SessionEventType
	Audio    []byte
	StartAt  time.Duration
	Duration time.Duration
	Text     string
	Messages []domain.ConversationMessage
	Cause    domain.GatewayErrCause
}

// LiveSession is one open duplex voice conversation. All mutable state is
// owned by the struct; a new session is built per start and discarded on stop.
type LiveSession struct {
	stream      domain.LiveStream
	registry    domain.ToolRegistry
	convRepo    domain.ConversationRepository
	logger      *log.Logger
	timeProvide domain.CurrentTimeProvider
	mode        domain.AssistantMode

	playback *playbackClock
	events   chan SessionEvent

	mu              sync.Mutex
	state           SessionState
	inputTranscript strings.Builder
	outputBuffer    strings.Builder
	endNote         string

	ctx      context.Context
	cancel   context.CancelFunc
	closeOne sync.Once
}

// Events returns the outbound event channel. It is closed after the final
// Closed event.
func (s *LiveSession) Events() <-chan SessionEvent {
	return s.events
}

// State returns the current session state.
func (s *LiveSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SendAudio relays one microphone PCM frame to the gateway.
func (s *LiveSession) SendAudio(pcm []byte) error {
	if s.State() != SessionState_Open {
		return domain.NewValidationErr("session is not open")
	}
	return s.stream.SendAudio(s.ctx, pcm)
}

// SendText injects a typed message into the running voice session.
func (s *LiveSession) SendText(text string) error {
	if s.State() != SessionState_Open {
		return domain.NewValidationErr("session is not open")
	}
	return s.stream.SendText(s.ctx, text)
}

// Stop requests teardown. Calling it on an already closed session is a no-op.
// The event channel stays open until the receive loop drains out and
// finalizes.
func (s *LiveSession) Stop() {
	s.shutdown("")
}

// receiveLoop is the single reader of the gateway stream. Every inbound event
// funnels through here, so transcript accumulation and playback scheduling
// never race. It is also the only goroutine that closes the event channel,
// which keeps a concurrent Stop from closing it under an in-flight emit.
func (s *LiveSession) receiveLoop() {
	for {
		event, err := s.stream.Recv(s.ctx)
		if err != nil {
			s.handleRecvErr(err)
			s.finalize()
			return
		}

		switch event.Type {
		case domain.LiveEventType_Audio:
			start, dur := s.playback.Schedule(len(event.Audio))
			s.emit(SessionEvent{
				Type:     SessionEventType_Audio,
				Audio:    event.Audio,
				StartAt:  start,
				Duration: dur,
			})
		case domain.LiveEventType_InputTranscript:
			s.mu.Lock()
			s.inputTranscript.WriteString(event.Text)
			partial := s.inputTranscript.String()
			s.mu.Unlock()
			s.emit(SessionEvent{Type: SessionEventType_InputPartial, Text: partial})
		case domain.LiveEventType_OutputTranscript:
			s.mu.Lock()
			s.outputBuffer.WriteString(event.Text)
			s.mu.Unlock()
		case domain.LiveEventType_Interrupted:
			s.playback.Reset()
			s.emit(SessionEvent{Type: SessionEventType_Interrupted})
		case domain.LiveEventType_TurnComplete:
			s.flushTranscripts()
		case domain.LiveEventType_ToolCall:
			s.handleToolCalls(event.ToolCalls)
		}
	}
}

// flushTranscripts finalizes the accumulated transcripts into conversation
// messages. Runs exactly once per completed turn: the accumulators are cleared
// under the same lock that read them.
func (s *LiveSession) flushTranscripts() {
	s.mu.Lock()
	input := strings.TrimSpace(s.inputTranscript.String())
	output := strings.TrimSpace(s.outputBuffer.String())
	s.inputTranscript.Reset()
	s.outputBuffer.Reset()
	s.mu.Unlock()

	messages := make([]domain.ConversationMessage, 0, 2)
	if input != "" {
		messages = append(messages, domain.NewTextMessage(domain.ChatRole_User, input))
	}
	if output != "" {
		messages = append(messages, domain.NewTextMessage(domain.ChatRole_Model, output))
	}
	if len(messages) == 0 {
		return
	}

	for i := range messages {
		messages[i].CreatedAt = s.timeProvide.Now()
		if err := s.convRepo.AppendMessage(s.ctx, messages[i]); err != nil {
			s.logger.Printf("failed to persist live transcript: %v", err)
		}
	}
	s.emit(SessionEvent{Type: SessionEventType_Messages, Messages: messages})
}

// handleToolCalls dispatches model-issued calls and returns the results on the
// stream. Results travel as tool response frames, never as transcript text.
// Guest sessions never dispatch: the catalog was empty at connect time, so any
// call the model fabricates is dropped here.
func (s *LiveSession) handleToolCalls(calls []domain.ToolCall) {
	if s.mode != domain.AssistantMode_Authenticated {
		s.logger.Printf("dropping %d tool calls issued in guest mode", len(calls))
		return
	}

	for _, call := range calls {
		if call.ID == "" {
			continue
		}
		s.emit(SessionEvent{
			Type: SessionEventType_ToolStatus,
			Text: s.registry.StatusMessage(call.Name),
		})
	}

	responses := s.registry.Dispatch(s.ctx, calls)
	if len(responses) == 0 {
		return
	}
	if err := s.stream.SendToolResponses(s.ctx, responses); err != nil {
		s.logger.Printf("failed to send tool responses: %v", err)
	}
}

func (s *LiveSession) handleRecvErr(err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		s.shutdown("")
		return
	}

	cause := domain.GatewayErrCause_Transport
	var gatewayErr *domain.GatewayErr
	if errors.As(err, &gatewayErr) {
		cause = gatewayErr.Cause
	}
	s.emit(SessionEvent{Type: SessionEventType_Error, Text: err.Error(), Cause: cause})
	s.shutdown(fmt.Sprintf("Voice session ended after an error: %s", err.Error()))
}

// shutdown starts teardown for every way a session ends: explicit stop,
// gateway error, or remote close. Each step is best-effort. It never touches
// the event channel; closing that is finalize's job.
func (s *LiveSession) shutdown(errNote string) {
	s.closeOne.Do(func() {
		s.mu.Lock()
		s.state = SessionState_Closing
		s.inputTranscript.Reset()
		s.outputBuffer.Reset()
		s.endNote = errNote
		s.mu.Unlock()

		s.playback.Reset()
		s.cancel()
		if err := s.stream.Close(); err != nil {
			s.logger.Printf("failed to close live stream: %v", err)
		}
	})
}

// finalize persists the session end note, emits the final events, and closes
// the event channel. It runs only on the receive-loop goroutine, after the
// loop has stopped reading.
func (s *LiveSession) finalize() {
	s.mu.Lock()
	note := s.endNote
	s.mu.Unlock()
	if note == "" {
		note = "Voice session ended."
	}
	closing := domain.NewTextMessage(domain.ChatRole_System, note)
	closing.CreatedAt = s.timeProvide.Now()
	if err := s.convRepo.AppendMessage(context.WithoutCancel(s.ctx), closing); err != nil {
		s.logger.Printf("failed to persist session end note: %v", err)
	}

	s.emit(SessionEvent{Type: SessionEventType_Messages, Messages: []domain.ConversationMessage{closing}})
	s.emit(SessionEvent{Type: SessionEventType_Closed})

	s.mu.Lock()
	s.state = SessionState_Idle
	s.mu.Unlock()
	close(s.events)
}

// emit delivers an event without ever blocking the receive loop. A slow client
// loses events rather than stalling audio.
func (s *LiveSession) emit(event SessionEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Printf("live event buffer full, dropping %s event", event.Type)
	}
}

// LiveSessionManager builds and owns live voice sessions.
type LiveSessionManager struct {
	gateway        domain.ModelGateway
	registry       domain.ToolRegistry
	contextBuilder domain.ContextBuilder
	convRepo       domain.ConversationRepository
	timeProvider   domain.CurrentTimeProvider
	logger         *log.Logger
	voice          string

	mu      sync.Mutex
	current *LiveSession
}

// NewLiveSessionManager creates a new LiveSessionManager.
func NewLiveSessionManager(
	gateway domain.ModelGateway,
	registry domain.ToolRegistry,
	contextBuilder domain.ContextBuilder,
	convRepo domain.ConversationRepository,
	timeProvider domain.CurrentTimeProvider,
	logger *log.Logger,
	voice string,
) *LiveSessionManager {
	return &LiveSessionManager{
		gateway:        gateway,
		registry:       registry,
		contextBuilder: contextBuilder,
		convRepo:       convRepo,
		timeProvider:   timeProvider,
		logger:         logger,
		voice:          voice,
	}
}

// Start opens a new live session. Only one session runs at a time; starting
// while another is open stops the previous one first.
func (m *LiveSessionManager) Start(ctx context.Context, mode domain.AssistantMode) (*LiveSession, error) {
	m.mu.Lock()
	previous := m.current
	m.mu.Unlock()
	if previous != nil {
		previous.Stop()
	}

	instruction, err := m.contextBuilder.BuildSystemContext(ctx, mode, "")
	if err != nil {
		return nil, err
	}

	// Guest mode sends an empty catalog: the model cannot call what it was
	// never offered, regardless of the prompt text.
	var tools []domain.ToolDefinition
	if mode == domain.AssistantMode_Authenticated {
		tools = m.registry.List()
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &LiveSession{
		registry:    m.registry,
		convRepo:    m.convRepo,
		logger:      m.logger,
		timeProvide: m.timeProvider,
		mode:        mode,
		playback:    &playbackClock{},
		events:      make(chan SessionEvent, 256),
		state:       SessionState_Opening,
		ctx:         sessionCtx,
		cancel:      cancel,
	}

	stream, err := m.gateway.ConnectLive(sessionCtx, domain.LiveConfig{
		SystemInstruction: instruction,
		Tools:             tools,
		Voice:             m.voice,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	session.stream = stream

	session.mu.Lock()
	session.state = SessionState_Open
	session.mu.Unlock()

	m.mu.Lock()
	m.current = session
	m.mu.Unlock()

	go session.receiveLoop()
	return session, nil
}

// Stop closes the current session if one is open. Stopping an idle manager is
// a no-op.
func (m *LiveSessionManager) Stop() {
	m.mu.Lock()
	session := m.current
	m.current = nil
	m.mu.Unlock()

	if session != nil {
		session.Stop()
	}
}

// InitLiveSessionManager wires the live session manager into the dependency
// container.
type InitLiveSessionManager struct {
	Gateway        domain.ModelGateway           `resolve:""`
	Registry       domain.ToolRegistry           `resolve:""`
	ContextBuilder domain.ContextBuilder         `resolve:""`
	ConvRepo       domain.ConversationRepository `resolve:""`
	TimeProvider   domain.CurrentTimeProvider    `resolve:""`
	Logger         *log.Logger                   `resolve:""`
	Voice          string                        `config:"LIVE_VOICE" default:"Puck"`
}

func (i InitLiveSessionManager) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[*LiveSessionManager](NewLiveSessionManager(
		i.Gateway,
		i.Registry,
		i.ContextBuilder,
		i.ConvRepo,
		i.TimeProvider,
		i.Logger,
		i.Voice,
	))
	return ctx, nil
}
