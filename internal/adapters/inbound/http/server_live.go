package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mirahq/academy-crm/internal/assistant"
	"github.com/mirahq/academy-crm/internal/domain"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
	// The API is CORS-open; the websocket endpoint follows the same policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveServerFrame is one JSON frame toward the connected client. Audio
// payloads ride along base64-encoded with their playback schedule.
type liveServerFrame struct {
	Type       string            `json:"type"`
	Audio      []byte            `json:"audio,omitempty"`
	StartMs    int64             `json:"start_ms,omitempty"`
	DurationMs int64             `json:"duration_ms,omitempty"`
	Text       string            `json:"text,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	Messages   []chatMessageResp `json:"messages,omitempty"`
}

// liveClientFrame is one JSON text frame from the client. Microphone PCM
// arrives as binary frames and never goes through this struct.
type liveClientFrame struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Cause   string `json:"cause"`
	Message string `json:"message"`
}

// LiveSession upgrades the connection to a websocket and relays a duplex
// voice session: binary frames carry microphone PCM toward the model, JSON
// frames carry scheduled audio, transcripts and session events back.
func (api *AcademyServer) LiveSession(w http.ResponseWriter, r *http.Request) {
	mode, err := toAssistantMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, toError(err))
		return
	}

	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		api.Logger.Printf("Error upgrading live connection: %v", err)
		return
	}
	defer conn.Close() //nolint:errcheck

	session, err := api.SessionManager.Start(r.Context(), mode)
	if err != nil {
		cause := domain.GatewayErrCause_Transport
		var gatewayErr *domain.GatewayErr
		if errors.As(err, &gatewayErr) {
			cause = gatewayErr.Cause
		}
		_ = conn.WriteJSON(liveServerFrame{Type: "error", Text: err.Error(), Cause: string(cause)})
		return
	}
	defer session.Stop()

	// The pump goroutine is the only writer on the connection.
	done := make(chan struct{})
	go api.pumpLiveEvents(conn, session, done)

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}

		switch msgType {
		case websocket.BinaryMessage:
			if err := session.SendAudio(payload); err != nil {
				api.Logger.Printf("Error relaying audio frame: %v", err)
			}
		case websocket.TextMessage:
			if api.handleLiveClientFrame(session, payload) {
				session.Stop()
			}
		}
	}

	session.Stop()
	<-done
}

// handleLiveClientFrame processes one JSON frame from the client. Returns true
// when the session should end.
func (api *AcademyServer) handleLiveClientFrame(session *assistant.LiveSession, payload []byte) bool {
	frame, err := decodeLiveClientFrame(payload)
	if err != nil {
		api.Logger.Printf("Error decoding live client frame: %v", err)
		return false
	}

	switch frame.Type {
	case "text":
		if err := session.SendText(frame.Text); err != nil {
			api.Logger.Printf("Error relaying text message: %v", err)
		}
	case "client_error":
		// The browser owns the microphone; permission and device failures
		// can only be reported from its side.
		cause := domain.GatewayErrCause_Transport
		switch frame.Cause {
		case string(domain.GatewayErrCause_Permission):
			cause = domain.GatewayErrCause_Permission
		case string(domain.GatewayErrCause_Device):
			cause = domain.GatewayErrCause_Device
		}
		api.Logger.Printf("Live client reported %s error: %s", cause, frame.Message)
		return true
	case "stop":
		return true
	}
	return false
}

// pumpLiveEvents forwards session events as JSON frames until the session
// closes its channel.
func (api *AcademyServer) pumpLiveEvents(conn *websocket.Conn, session *assistant.LiveSession, done chan<- struct{}) {
	defer close(done)

	for event := range session.Events() {
		frame := liveServerFrame{Type: string(event.Type)}
		switch event.Type {
		case assistant.SessionEventType_Audio:
			frame.Audio = event.Audio
			frame.StartMs = event.StartAt.Milliseconds()
			frame.DurationMs = event.Duration.Milliseconds()
		case assistant.SessionEventType_InputPartial, assistant.SessionEventType_ToolStatus:
			frame.Text = event.Text
		case assistant.SessionEventType_Messages:
			for _, msg := range event.Messages {
				frame.Messages = append(frame.Messages, toChatMessage(msg))
			}
		case assistant.SessionEventType_Error:
			frame.Text = event.Text
			frame.Cause = string(event.Cause)
		}

		if err := conn.WriteJSON(frame); err != nil {
			api.Logger.Printf("Error writing live frame: %v", err)
			session.Stop()
			// Keep draining so the session's receive loop never blocks.
			continue
		}
	}
}

func decodeLiveClientFrame(payload []byte) (liveClientFrame, error) {
	var frame liveClientFrame
	err := json.Unmarshal(payload, &frame)
	return frame, err
}
