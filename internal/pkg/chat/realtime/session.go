package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
	"github.com/gorilla/websocket"
)

// State is a connection's position in its lifecycle. The only transition out
// of StateActive is StateClosed, which is terminal.
type State int

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateClosed
)

// Command is one typed inbound frame from a client. The per-connection read
// loop decodes frames into Commands and hands them to Manager.Dispatch, which
// switches on Type; no handler registration, no transport knowledge.
type Command struct {
	Type          string  `json:"type"`
	RoomID        string  `json:"roomId,omitempty"`
	Content       string  `json:"content,omitempty"`
	MessageType   string  `json:"messageType,omitempty"`
	ImageData     *string `json:"imageData,omitempty"`
	CommuteUpdate *string `json:"commuteUpdate,omitempty"`
	ReplyTo       *string `json:"replyTo,omitempty"`
	IsTyping      bool    `json:"isTyping,omitempty"`
	UpdateType    string  `json:"updateType,omitempty"`
}

// Manager owns the per-connection lifecycle: it registers authenticated
// connections, dispatches their commands to the membership coordinator and
// broadcaster, and unwinds everything on disconnect. One instance exists per
// process; collaborators are injected and shutdown is explicit.
type Manager struct {
	registry   *Registry
	presence   *Presence
	membership *Membership
	fanout     *Broadcaster
	rooms      repository.RoomStore
	messages   repository.MessageStore
	log        *slog.Logger

	mu     sync.Mutex
	states map[string]State // connection ID -> lifecycle state
}

// NewManager wires the session manager with its collaborators.
func NewManager(registry *Registry, presence *Presence, membership *Membership, fanout *Broadcaster,
	rooms repository.RoomStore, messages repository.MessageStore, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		registry:   registry,
		presence:   presence,
		membership: membership,
		fanout:     fanout,
		rooms:      rooms,
		messages:   messages,
		log:        log,
		states:     make(map[string]State),
	}
}

// Attach transitions an authenticated connection to Active: it is registered
// in the registry and counted by the presence tracker, in that order, so the
// connection is routable before its user is reported online.
func (m *Manager) Attach(ctx context.Context, s Session) {
	m.registry.Register(s)
	m.presence.OnConnect(ctx, s.UserID(), s.ID())

	m.mu.Lock()
	m.states[s.ID()] = StateActive
	m.mu.Unlock()

	m.log.Info("connection active", "user", s.Username(), "conn", s.ID())
}

// StateOf returns the tracked lifecycle state for a connection.
func (m *Manager) StateOf(connID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[connID]; ok {
		return st
	}
	return StateConnecting
}

// Dispatch routes one inbound command. Command-level failures are reported
// only to the issuing connection and never end the session.
func (m *Manager) Dispatch(ctx context.Context, s Session, cmd Command) {
	if m.StateOf(s.ID()) != StateActive {
		return
	}

	switch cmd.Type {
	case "join_room":
		m.handleJoin(ctx, s, cmd)
	case "leave_room":
		m.handleLeave(ctx, s, cmd)
	case "send_message":
		m.handleSend(ctx, s, cmd)
	case "typing":
		m.handleTyping(s, cmd)
	case "commute_update":
		m.handleCommuteUpdate(ctx, s, cmd)
	case "get_room_users":
		m.handleRoomUsers(ctx, s, cmd)
	default:
		m.fanout.Unicast(s, NewErrorEvent("Unknown command type"))
	}
}

// Disconnect is the Active -> Closed transition. Membership cleanup runs
// before presence flips offline, per-room failures are logged and skipped,
// and the connection is always unregistered afterwards.
func (m *Manager) Disconnect(ctx context.Context, s Session) {
	m.mu.Lock()
	if m.states[s.ID()] == StateClosed {
		m.mu.Unlock()
		return
	}
	m.states[s.ID()] = StateClosed
	m.mu.Unlock()

	for _, roomID := range m.registry.RoomsOf(s.ID()) {
		if err := m.membership.Leave(ctx, s, roomID); err != nil {
			m.log.Error("disconnect: room cleanup failed", "conn", s.ID(), "room", roomID, "err", err)
		}
	}

	m.registry.Unregister(s.ID())
	m.presence.OnDisconnect(ctx, s.UserID(), s.ID())

	m.mu.Lock()
	delete(m.states, s.ID())
	m.mu.Unlock()

	m.log.Info("connection closed", "user", s.Username(), "conn", s.ID())
}

// Shutdown closes every tracked connection and flushes presence offline for
// all tracked users. Called once during process teardown.
func (m *Manager) Shutdown(ctx context.Context) {
	for _, s := range m.registry.Sessions() {
		m.registry.Unregister(s.ID())
		s.Close(websocket.CloseGoingAway, "server shutting down")
	}
	m.presence.FlushOffline(ctx)

	m.mu.Lock()
	m.states = make(map[string]State)
	m.mu.Unlock()

	m.log.Info("session manager shut down")
}

func (m *Manager) handleJoin(ctx context.Context, s Session, cmd Command) {
	if cmd.RoomID == "" {
		m.fanout.Unicast(s, NewErrorEvent("Room ID is required"))
		return
	}

	res, err := m.membership.Join(ctx, s, cmd.RoomID)
	if err != nil {
		m.replyError(s, err, "Failed to join room")
		return
	}
	m.fanout.Unicast(s, NewRoomJoinedEvent(cmd.RoomID, res.RoomName, res.MemberCount))
}

func (m *Manager) handleLeave(ctx context.Context, s Session, cmd Command) {
	if cmd.RoomID == "" {
		m.fanout.Unicast(s, NewErrorEvent("Room ID is required"))
		return
	}

	if err := m.membership.Leave(ctx, s, cmd.RoomID); err != nil {
		m.replyError(s, err, "Failed to leave room")
		return
	}
	m.fanout.Unicast(s, NewRoomLeftEvent(cmd.RoomID))
}

func (m *Manager) handleSend(ctx context.Context, s Session, cmd Command) {
	if cmd.RoomID == "" {
		m.fanout.Unicast(s, NewErrorEvent("Room ID is required"))
		return
	}

	// Re-check against the persisted roster, not just the live subscription.
	if err := m.requireMembership(ctx, s.UserID(), cmd.RoomID); err != nil {
		m.replyError(s, err, "Failed to send message")
		return
	}

	msgType := chat.MessageTypeText
	if cmd.MessageType != "" {
		msgType = chat.MessageType(cmd.MessageType)
	}

	msg, err := chat.NewMessage(chat.Message{
		RoomID:         cmd.RoomID,
		SenderID:       s.UserID(),
		SenderUsername: s.Username(),
		Type:           msgType,
		Content:        cmd.Content,
		ImageData:      cmd.ImageData,
		CommuteUpdate:  cmd.CommuteUpdate,
		ReplyTo:        cmd.ReplyTo,
	})
	if err != nil {
		m.replyError(s, err, "Failed to send message")
		return
	}

	stored, err := m.messages.Append(ctx, *msg)
	if err != nil {
		m.replyError(s, err, "Failed to send message")
		return
	}
	if err := m.rooms.TouchLastActivity(ctx, cmd.RoomID); err != nil {
		m.log.Error("send: touch last activity failed", "room", cmd.RoomID, "err", err)
	}

	// The sender is subscribed too and receives its own message back.
	m.fanout.Broadcast(cmd.RoomID, NewMessageBroadcast(*stored), "")
	m.log.Info("message sent", "user", s.Username(), "room", cmd.RoomID)
}

func (m *Manager) handleTyping(s Session, cmd Command) {
	if cmd.RoomID == "" {
		return
	}
	if !m.registry.Subscribed(s.ID(), cmd.RoomID) {
		m.fanout.Unicast(s, NewErrorEvent("Room not found or user not in room"))
		return
	}
	m.fanout.Broadcast(cmd.RoomID, NewUserTypingEvent(s.UserID(), s.Username(), cmd.RoomID, cmd.IsTyping), s.ID())
}

func (m *Manager) handleCommuteUpdate(ctx context.Context, s Session, cmd Command) {
	if cmd.RoomID == "" || cmd.UpdateType == "" {
		m.fanout.Unicast(s, NewErrorEvent("Room ID and update type are required"))
		return
	}

	if err := m.requireMembership(ctx, s.UserID(), cmd.RoomID); err != nil {
		m.replyError(s, err, "Failed to send commute update")
		return
	}

	updateType := cmd.UpdateType
	msg, err := chat.NewMessage(chat.Message{
		RoomID:         cmd.RoomID,
		SenderID:       s.UserID(),
		SenderUsername: s.Username(),
		Type:           chat.MessageTypeUpdate,
		Content:        chat.CommuteUpdateText(chat.CommuteUpdateType(updateType)),
		CommuteUpdate:  &updateType,
	})
	if err != nil {
		m.replyError(s, err, "Failed to send commute update")
		return
	}

	stored, err := m.messages.Append(ctx, *msg)
	if err != nil {
		m.replyError(s, err, "Failed to send commute update")
		return
	}
	if err := m.rooms.TouchLastActivity(ctx, cmd.RoomID); err != nil {
		m.log.Error("commute update: touch last activity failed", "room", cmd.RoomID, "err", err)
	}

	m.fanout.Broadcast(cmd.RoomID, NewCommuteUpdateEvent(*stored, updateType, s.Username()), "")
	m.log.Info("commute update sent", "user", s.Username(), "room", cmd.RoomID, "update", updateType)
}

func (m *Manager) handleRoomUsers(ctx context.Context, s Session, cmd Command) {
	if cmd.RoomID == "" {
		m.fanout.Unicast(s, NewErrorEvent("Room ID is required"))
		return
	}

	if _, err := m.rooms.Find(ctx, cmd.RoomID); err != nil {
		m.replyError(s, err, "Failed to get room users")
		return
	}
	members, err := m.rooms.MembersOf(ctx, cmd.RoomID)
	if err != nil {
		m.replyError(s, err, "Failed to get room users")
		return
	}
	m.fanout.Unicast(s, NewRoomUsersEvent(cmd.RoomID, members))
}

// requireMembership verifies the room is active and the user is in its
// persisted roster.
func (m *Manager) requireMembership(ctx context.Context, userID, roomID string) error {
	if _, err := m.rooms.Find(ctx, roomID); err != nil {
		return err
	}
	ok, err := m.rooms.IsMember(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return chat.ErrNotAMember
	}
	return nil
}

// replyError maps a failure to an error event for the issuing connection.
func (m *Manager) replyError(s Session, err error, fallback string) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		m.fanout.Unicast(s, NewErrorEvent("Room not found"))
	case errors.Is(err, chat.ErrNotAMember):
		m.fanout.Unicast(s, NewErrorEvent("Room not found or user not in room"))
	case errors.Is(err, chat.ErrEmptyMessage):
		m.fanout.Unicast(s, NewErrorEvent("Message content is required"))
	case errors.Is(err, chat.ErrMessageTooLong):
		m.fanout.Unicast(s, NewErrorEvent("Message cannot exceed 1000 characters"))
	default:
		m.log.Error("command failed", "conn", s.ID(), "err", err)
		m.fanout.Unicast(s, NewErrorEvent(fallback))
	}
}
