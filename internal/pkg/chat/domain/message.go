package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MessageType represents the kind of message content
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
	MessageTypeUpdate MessageType = "update"
)

// MaxContentLength caps message bodies in characters, not bytes, so multibyte
// scripts and emoji get the full budget.
const MaxContentLength = 1000

// EditWindow is how long after creation the author may still edit a message.
const EditWindow = 15 * time.Minute

// ReadReceipt records one reader; a user appears at most once per message.
type ReadReceipt struct {
	UserID string    `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

// Message is a room log entry. SenderUsername is denormalized at send time so
// historical messages render correctly even if the sender later renames.
type Message struct {
	ID             string        `db:"id"`
	RoomID         string        `db:"room_id"`
	SenderID       string        `db:"sender_id"`
	SenderUsername string        `db:"sender_username"`
	Type           MessageType   `db:"msg_type"`
	Content        string        `db:"content"`
	ImageData      *string       `db:"image_data"`
	CommuteUpdate  *string       `db:"commute_update"`
	ReplyTo        *string       `db:"reply_to"`
	IsDeleted      bool          `db:"is_deleted"`
	EditedAt       *time.Time    `db:"edited_at"`
	CreatedAt      time.Time     `db:"created_at"`
	ReadBy         []ReadReceipt `db:"read_by"`
}

// NewMessage validates and normalizes a message before persistence.
func NewMessage(m Message) (*Message, error) {
	if m.RoomID == "" || m.SenderID == "" || m.SenderUsername == "" {
		return nil, ErrEmptyMessage
	}

	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" && m.ImageData == nil && m.CommuteUpdate == nil {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(m.Content) > MaxContentLength {
		return nil, ErrMessageTooLong
	}

	if m.Type == "" {
		m.Type = MessageTypeText
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return &m, nil
}

// CanEdit reports whether userID may still edit the message at the given time.
func (m *Message) CanEdit(userID string, now time.Time) error {
	if m.IsDeleted {
		return ErrMessageNotFound
	}
	if m.SenderID != userID {
		return ErrUnauthorized
	}
	if now.Sub(m.CreatedAt) > EditWindow {
		return ErrEditWindowExpired
	}
	return nil
}

// CanDelete allows the author or a privileged role to soft-delete the message.
func (m *Message) CanDelete(ident Identity) error {
	if m.SenderID != ident.UserID && !ident.Role.Privileged() {
		return ErrUnauthorized
	}
	return nil
}

// MarkRead appends a read receipt if the user has not read the message yet.
// It returns false when the receipt was already present.
func (m *Message) MarkRead(userID string, at time.Time) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return false
		}
	}
	m.ReadBy = append(m.ReadBy, ReadReceipt{UserID: userID, ReadAt: at})
	return true
}
