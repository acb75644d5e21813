package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// JoinResult is the direct confirmation returned to a joining connection.
type JoinResult struct {
	RoomName    string
	MemberCount int
}

// Membership reconciles a connection's ephemeral room subscriptions with the
// persisted roster. Roster read-modify-write is serialized per room through a
// keyed mutex on top of the store's own atomic add/remove, so concurrent joins
// to the same room end up counted exactly once. Failed roster writes are
// retried once before surfacing.
type Membership struct {
	registry *Registry
	rooms    repository.RoomStore
	fanout   *Broadcaster
	log      *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // room ID -> roster lock
}

// NewMembership constructs the membership coordinator.
func NewMembership(registry *Registry, rooms repository.RoomStore, fanout *Broadcaster, log *slog.Logger) *Membership {
	if log == nil {
		log = slog.Default()
	}
	return &Membership{
		registry: registry,
		rooms:    rooms,
		fanout:   fanout,
		log:      log,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *Membership) roomLock(roomID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.locks[roomID]
	if l == nil {
		l = &sync.Mutex{}
		m.locks[roomID] = l
	}
	return l
}

// Join subscribes the connection to the room and appends the user to the
// persisted roster when not already a member. Other live members receive a
// user_joined event; the joining connection gets the JoinResult back.
func (m *Membership) Join(ctx context.Context, s Session, roomID string) (*JoinResult, error) {
	room, err := m.rooms.Find(ctx, roomID)
	if err != nil {
		return nil, err
	}

	m.registry.Subscribe(s.ID(), roomID)

	lock := m.roomLock(roomID)
	lock.Lock()
	count, added, err := m.rooms.AddMember(ctx, roomID, s.UserID())
	if err != nil {
		// one retry with a fresh write before giving up
		count, added, err = m.rooms.AddMember(ctx, roomID, s.UserID())
	}
	lock.Unlock()
	if err != nil {
		m.registry.Unsubscribe(s.ID(), roomID)
		return nil, fmt.Errorf("membership: add %s to room %s: %w", s.UserID(), roomID, err)
	}

	if added {
		m.fanout.Broadcast(roomID, NewUserJoinedEvent(s.UserID(), s.Username(), roomID), s.ID())
	}

	m.log.Info("room joined", "user", s.Username(), "room", room.Name)
	return &JoinResult{RoomName: room.Name, MemberCount: count}, nil
}

// Leave drops the connection's subscription. The user is removed from the
// persisted roster only when no other live connection of the same user still
// subscribes to the room, so leaving from one device never evicts a user whose
// other device is still joined. Remaining members receive a user_left event
// when the roster actually shrank.
func (m *Membership) Leave(ctx context.Context, s Session, roomID string) error {
	m.registry.Unsubscribe(s.ID(), roomID)

	if m.userStillSubscribed(s.UserID(), roomID) {
		return nil
	}

	lock := m.roomLock(roomID)
	lock.Lock()
	_, removed, err := m.rooms.RemoveMember(ctx, roomID, s.UserID())
	if err != nil {
		_, removed, err = m.rooms.RemoveMember(ctx, roomID, s.UserID())
	}
	lock.Unlock()
	if err != nil {
		return fmt.Errorf("membership: remove %s from room %s: %w", s.UserID(), roomID, err)
	}

	if removed {
		m.fanout.Broadcast(roomID, NewUserLeftEvent(s.UserID(), s.Username(), roomID), s.ID())
	}
	m.log.Info("room left", "user", s.Username(), "room", roomID)
	return nil
}

// userStillSubscribed reports whether any other live connection of the user
// still subscribes to the room.
func (m *Membership) userStillSubscribed(userID, roomID string) bool {
	for _, connID := range m.registry.ConnectionsOf(userID) {
		if m.registry.Subscribed(connID, roomID) {
			return true
		}
	}
	return false
}
