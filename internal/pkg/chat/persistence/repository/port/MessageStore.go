package repository

import (
	"context"
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// MessageStore persists room messages. Deletion is always soft: the row stays,
// the flag flips, and listings exclude it.
type MessageStore interface {
	// Append stores a validated message and returns it with ID and CreatedAt assigned.
	Append(ctx context.Context, m chat.Message) (*chat.Message, error)

	// Get returns the message, including soft-deleted ones, or chat.ErrMessageNotFound.
	Get(ctx context.Context, messageID string) (*chat.Message, error)

	// ListByRoom pages through non-deleted messages of a room, newest first.
	// total is the number of non-deleted messages in the room.
	ListByRoom(ctx context.Context, roomID string, page, limit int) (msgs []chat.Message, total int, err error)

	// Edit replaces content and/or image data and stamps editedAt.
	Edit(ctx context.Context, messageID string, content *string, imageData *string, editedAt time.Time) error

	// SoftDelete flags the message as deleted; deleting twice is a no-op.
	SoftDelete(ctx context.Context, messageID string, at time.Time) error

	// MarkRead appends a read receipt unless the user already has one.
	MarkRead(ctx context.Context, messageID, userID string, at time.Time) error
}
