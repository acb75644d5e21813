package realtime

import "sync"

// Registry is the single owner of the connection/user/room bookkeeping maps.
// One mutex guards all four maps so that paired updates (a connection plus its
// entry in the user's set) are always atomic; no caller ever observes one map
// updated without the other. It holds no knowledge of persistence.
//
// All operations are idempotent: registering an already-registered ID
// overwrites, unsubscribing a room that was never subscribed is a no-op.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]Session             // connection ID -> session
	userConns map[string]map[string]struct{} // user ID -> set of connection IDs
	rooms     map[string]map[string]struct{} // room ID -> set of connection IDs
	connRooms map[string]map[string]struct{} // connection ID -> set of room IDs
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]Session),
		userConns: make(map[string]map[string]struct{}),
		rooms:     make(map[string]map[string]struct{}),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Register tracks a session. A session with the same ID is overwritten.
func (r *Registry) Register(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.sessions[s.ID()]; ok {
		r.unregisterLocked(prev.ID())
	}

	r.sessions[s.ID()] = s
	conns := r.userConns[s.UserID()]
	if conns == nil {
		conns = make(map[string]struct{})
		r.userConns[s.UserID()] = conns
	}
	conns[s.ID()] = struct{}{}
	r.connRooms[s.ID()] = make(map[string]struct{})
}

// Unregister removes the session and all of its room subscriptions, returning
// the removed session or nil if it was not tracked.
func (r *Registry) Unregister(connID string) Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[connID]
	r.unregisterLocked(connID)
	return s
}

// Get returns the tracked session for connID, or nil.
func (r *Registry) Get(connID string) Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[connID]
}

// ConnectionsOf returns the IDs of every live connection the user holds.
func (r *Registry) ConnectionsOf(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.userConns[userID]))
	for id := range r.userConns[userID] {
		ids = append(ids, id)
	}
	return ids
}

// Subscribe adds the connection to a room's live set. Unknown connections are
// ignored so a race with disconnect cannot resurrect state.
func (r *Registry) Subscribe(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[connID]; !ok {
		return
	}

	room := r.rooms[roomID]
	if room == nil {
		room = make(map[string]struct{})
		r.rooms[roomID] = room
	}
	room[connID] = struct{}{}

	memberships := r.connRooms[connID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.connRooms[connID] = memberships
	}
	memberships[roomID] = struct{}{}
}

// Unsubscribe removes the connection from a room's live set.
func (r *Registry) Unsubscribe(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribeLocked(connID, roomID)
}

// RoomsOf returns the room IDs the connection is currently subscribed to.
func (r *Registry) RoomsOf(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.connRooms[connID]))
	for id := range r.connRooms[connID] {
		ids = append(ids, id)
	}
	return ids
}

// Subscribed reports whether the connection currently subscribes to the room.
func (r *Registry) Subscribed(connID, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.connRooms[connID][roomID]
	return ok
}

// RoomSessions returns a snapshot of the sessions subscribed to a room,
// excluding excludeConnID when non-empty. Callers deliver outside the lock.
func (r *Registry) RoomSessions(roomID, excludeConnID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.rooms[roomID]
	sessions := make([]Session, 0, len(room))
	for connID := range room {
		if excludeConnID != "" && connID == excludeConnID {
			continue
		}
		if s := r.sessions[connID]; s != nil {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// Sessions returns a snapshot of every tracked session.
func (r *Registry) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (r *Registry) unregisterLocked(connID string) {
	s, ok := r.sessions[connID]
	if !ok {
		return
	}
	delete(r.sessions, connID)

	if conns, ok := r.userConns[s.UserID()]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.userConns, s.UserID())
		}
	}

	for roomID := range r.connRooms[connID] {
		r.unsubscribeLocked(connID, roomID)
	}
	delete(r.connRooms, connID)
}

func (r *Registry) unsubscribeLocked(connID, roomID string) {
	room := r.rooms[roomID]
	if room != nil {
		delete(room, connID)
		if len(room) == 0 {
			delete(r.rooms, roomID)
		}
	}
	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, roomID)
	}
}
