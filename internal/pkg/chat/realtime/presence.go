package realtime

import (
	"context"
	"log/slog"
	"sync"

	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// Presence derives a user's online state from the set of connections currently
// open for that user: online iff the set is non-empty. The map is mutated only
// here, and the directory flag is flipped only on 0<->1 boundary crossings so a
// user with two devices never flickers offline when one of them drops.
type Presence struct {
	mu        sync.Mutex
	open      map[string]map[string]struct{} // user ID -> set of connection IDs
	directory repository.UserDirectory
	log       *slog.Logger
}

// NewPresence constructs a Presence tracker flushing transitions to directory.
func NewPresence(directory repository.UserDirectory, log *slog.Logger) *Presence {
	if log == nil {
		log = slog.Default()
	}
	return &Presence{
		open:      make(map[string]map[string]struct{}),
		directory: directory,
		log:       log,
	}
}

// OnConnect records an open connection. It returns true when this was the
// user's first connection, i.e. the user just went online.
func (p *Presence) OnConnect(ctx context.Context, userID, connID string) bool {
	p.mu.Lock()
	conns := p.open[userID]
	if conns == nil {
		conns = make(map[string]struct{})
		p.open[userID] = conns
	}
	wasEmpty := len(conns) == 0
	conns[connID] = struct{}{}
	p.mu.Unlock()

	if wasEmpty {
		if err := p.directory.SetOnline(ctx, userID, true); err != nil {
			p.log.Error("presence: set online failed", "user", userID, "err", err)
		}
	}
	return wasEmpty
}

// OnDisconnect removes a connection. It returns true when the user's open set
// became empty, i.e. the user just went offline.
func (p *Presence) OnDisconnect(ctx context.Context, userID, connID string) bool {
	p.mu.Lock()
	conns, ok := p.open[userID]
	if !ok {
		p.mu.Unlock()
		return false
	}
	if _, tracked := conns[connID]; !tracked {
		p.mu.Unlock()
		return false
	}
	delete(conns, connID)
	nowEmpty := len(conns) == 0
	if nowEmpty {
		delete(p.open, userID)
	}
	p.mu.Unlock()

	if nowEmpty {
		if err := p.directory.SetOnline(ctx, userID, false); err != nil {
			p.log.Error("presence: set offline failed", "user", userID, "err", err)
		}
	}
	return nowEmpty
}

// Online reports whether the user holds at least one open connection.
func (p *Presence) Online(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.open[userID]) > 0
}

// FlushOffline marks every tracked user offline and clears the tracker.
// Used during shutdown so no user is left stuck online.
func (p *Presence) FlushOffline(ctx context.Context) {
	p.mu.Lock()
	users := make([]string, 0, len(p.open))
	for userID := range p.open {
		users = append(users, userID)
	}
	p.open = make(map[string]map[string]struct{})
	p.mu.Unlock()

	for _, userID := range users {
		if err := p.directory.SetOnline(ctx, userID, false); err != nil {
			p.log.Error("presence: shutdown offline flush failed", "user", userID, "err", err)
		}
	}
}
