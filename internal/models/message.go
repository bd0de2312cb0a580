package models

import (
	"strings"
	"time"
)

// Participant identifies which side of a message a user is on.
type Participant int

const (
	ParticipantNone Participant = iota
	ParticipantSender
	ParticipantRecipient
)

func (p Participant) String() string {
	switch p {
	case ParticipantSender:
		return "sender"
	case ParticipantRecipient:
		return "recipient"
	default:
		return "none"
	}
}

// DeletionState is the lifecycle position of a message. Transitions only move
// forward: Active -> DeletedBySender|DeletedByRecipient -> FullyDeleted.
type DeletionState int

const (
	StateActive DeletionState = iota
	StateDeletedBySender
	StateDeletedByRecipient
	StateFullyDeleted
)

func (s DeletionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDeletedBySender:
		return "deleted_by_sender"
	case StateDeletedByRecipient:
		return "deleted_by_recipient"
	case StateFullyDeleted:
		return "fully_deleted"
	default:
		return "unknown"
	}
}

/** --------------------ENTITIES-------------------- */
// Message is a direct message between two users. The usernames are a snapshot
// taken at send time and never follow later identity changes.
// They are the display-name snapshot; User.DisplayName is live and not copied here.
type Message struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	SenderID          uint      `gorm:"not null;index" json:"senderId"`
	SenderUsername    string    `gorm:"size:64;not null;index:idx_messages_sender_recipient,priority:1" json:"senderUsername"`
	RecipientID       uint      `gorm:"not null;index" json:"recipientId"`
	RecipientUsername string    `gorm:"size:64;not null;index:idx_messages_sender_recipient,priority:2" json:"recipientUsername"`
	Content           string    `gorm:"type:text;not null" json:"content"`
	CreatedAt         time.Time `gorm:"not null;index" json:"createdAt"`
	SenderDeleted     bool      `gorm:"not null;default:false" json:"-"`
	RecipientDeleted  bool      `gorm:"not null;default:false" json:"-"`
}

// ParticipantOf reports which role username plays on the message.
func (m *Message) ParticipantOf(username string) Participant {
	switch {
	case username == "":
		return ParticipantNone
	case strings.EqualFold(m.SenderUsername, username):
		return ParticipantSender
	case strings.EqualFold(m.RecipientUsername, username):
		return ParticipantRecipient
	default:
		return ParticipantNone
	}
}

// State derives the lifecycle state from the two deletion flags.
func (m *Message) State() DeletionState {
	switch {
	case m.SenderDeleted && m.RecipientDeleted:
		return StateFullyDeleted
	case m.SenderDeleted:
		return StateDeletedBySender
	case m.RecipientDeleted:
		return StateDeletedByRecipient
	default:
		return StateActive
	}
}

// MarkDeletedBy sets the flag owned by p. It returns false when the flag was
// already set or p is not a participant; flags are never cleared.
func (m *Message) MarkDeletedBy(p Participant) bool {
	switch p {
	case ParticipantSender:
		if m.SenderDeleted {
			return false
		}
		m.SenderDeleted = true
		return true
	case ParticipantRecipient:
		if m.RecipientDeleted {
			return false
		}
		m.RecipientDeleted = true
		return true
	default:
		return false
	}
}

// VisibleTo reports whether username can still see the message.
func (m *Message) VisibleTo(username string) bool {
	switch m.ParticipantOf(username) {
	case ParticipantSender:
		return !m.SenderDeleted
	case ParticipantRecipient:
		return !m.RecipientDeleted
	default:
		return false
	}
}

// MessageEventType names an audit event emitted after a committed change.
type MessageEventType string

const (
	EventMessageSent    MessageEventType = "message.sent"
	EventMessageDeleted MessageEventType = "message.deleted"
)

// MessageEvent is the audit record published after a send or delete commits.
type MessageEvent struct {
	Type              MessageEventType `json:"type"`
	MessageID         uint             `json:"messageId"`
	SenderUsername    string           `json:"senderUsername"`
	RecipientUsername string           `json:"recipientUsername"`
	DeletedBy         string           `json:"deletedBy,omitempty"`
	HardDeleted       bool             `json:"hardDeleted,omitempty"`
	OccurredAt        time.Time        `json:"occurredAt"`
}

/** -------------------- DTOs -------------------- */
// Request
type CreateMessageRequest struct {
	RecipientUsername string `json:"recipientUsername" binding:"required,max=64"`
	Content           string `json:"content" binding:"required,max=4000"`
}

// Response
type MessageResponse struct {
	ID                uint      `json:"id"`
	SenderID          uint      `json:"senderId"`
	SenderUsername    string    `json:"senderUsername"`
	RecipientID       uint      `json:"recipientId"`
	RecipientUsername string    `json:"recipientUsername"`
	Content           string    `json:"content"`
	MessageSent       time.Time `json:"messageSent"`
}

// NewMessageResponse shapes a stored message for the API.
func NewMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		SenderID:          m.SenderID,
		SenderUsername:    m.SenderUsername,
		RecipientID:       m.RecipientID,
		RecipientUsername: m.RecipientUsername,
		Content:           m.Content,
		MessageSent:       m.CreatedAt,
	}
}

// NewMessageResponses shapes a list, always returning a non-nil slice.
func NewMessageResponses(msgs []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, NewMessageResponse(&msgs[i]))
	}
	return out
}
