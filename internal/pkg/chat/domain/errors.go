package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrRoomNotFound      = errors.New("chat: room not found or inactive")
	ErrNotAMember        = errors.New("chat: user is not a member of the room")
	ErrEmptyMessage      = errors.New("chat: empty message (no content, image or status update)")
	ErrMessageTooLong    = errors.New("chat: message exceeds maximum length")
	ErrMessageNotFound   = errors.New("chat: message not found")
	ErrEditWindowExpired = errors.New("chat: message edit window has expired")
	ErrUnauthorized      = errors.New("chat: not authorized to modify this message")
)
