package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a conversation message.
type ChatRole string

const (
	// ChatRole_User is a message authored by the dashboard user.
	ChatRole_User ChatRole = "user"
	// ChatRole_Model is a message authored by the assistant model.
	ChatRole_Model ChatRole = "model"
	// ChatRole_System is an application-generated notice (errors, session lifecycle).
	ChatRole_System ChatRole = "system"
)

// MessagePartKind identifies the payload type of a message part.
type MessagePartKind string

const (
	// MessagePartKind_Text is a plain text part.
	MessagePartKind_Text MessagePartKind = "text"
	// MessagePartKind_Image is a base64-encoded image part.
	MessagePartKind_Image MessagePartKind = "image"
)

// MessagePart is a single ordered piece of a conversation message.
type MessagePart struct {
	Kind  MessagePartKind
	Value string
}

// ConversationMessage is one entry in the assistant conversation. The message
// list is append-only; the only entry ever replaced in place is the transient
// live-transcription partial, which is owned by the live session and flushed
// into a finalized message on turn completion.
type ConversationMessage struct {
	ID        uuid.UUID
	Role      ChatRole
	Parts     []MessagePart
	CreatedAt time.Time
}

// NewTextMessage builds a single-part text message.
func NewTextMessage(role ChatRole, text string) ConversationMessage {
	return ConversationMessage{
		ID:   uuid.New(),
		Role: role,
		Parts: []MessagePart{
			{Kind: MessagePartKind_Text, Value: text},
		},
	}
}

// Text joins the text parts of the message.
func (m ConversationMessage) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Kind != MessagePartKind_Text {
			continue
		}
		b.WriteString(p.Value)
	}
	return b.String()
}

// ConversationRepository persists the assistant conversation.
type ConversationRepository interface {
	// ListMessages retrieves conversation messages in creation order.
	ListMessages(ctx context.Context, page, pageSize int) ([]ConversationMessage, bool, error)
	// AppendMessage stores a new conversation message.
	AppendMessage(ctx context.Context, message ConversationMessage) error
	// ClearMessages removes every message; used by the explicit reset action.
	ClearMessages(ctx context.Context) error
}
