package repository

import (
	"context"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

// RoomStore persists rooms and their membership rosters.
//
// AddMember and RemoveMember must keep the member count equal to the size of
// the member set in a single atomic step, so two concurrent joins to the same
// room can never double-count or lose an update. Both are idempotent.
type RoomStore interface {
	// Find returns the room if it exists and is active; chat.ErrRoomNotFound otherwise.
	Find(ctx context.Context, roomID string) (*chat.Room, error)

	// AddMember appends userID to the roster unless already present.
	// It returns the resulting member count and whether the user was newly added.
	AddMember(ctx context.Context, roomID, userID string) (count int, added bool, err error)

	// RemoveMember drops userID from the roster; removing a non-member is a no-op.
	// It returns the resulting member count and whether the user was actually removed.
	RemoveMember(ctx context.Context, roomID, userID string) (count int, removed bool, err error)

	// IsMember reports whether userID is in the persisted roster.
	IsMember(ctx context.Context, roomID, userID string) (bool, error)

	// MembersOf returns roster entries joined with directory display fields.
	MembersOf(ctx context.Context, roomID string) ([]chat.RoomMember, error)

	// TouchLastActivity bumps the room's last-message timestamp.
	TouchLastActivity(ctx context.Context, roomID string) error

	// ListActive returns active rooms, most recently active first.
	ListActive(ctx context.Context, limit int) ([]chat.Room, error)
}
