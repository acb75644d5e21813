package realtime

import (
	"encoding/json"
	"log/slog"
)

// Broadcaster delivers events to the live connections of a room. Delivery is
// fire-and-forget: each destination is attempted independently, a failed write
// is logged and never aborts the remaining deliveries or reaches the caller.
//
// The registry lock is only held while snapshotting the destination set, never
// across the network writes, so a large fanout cannot stall joins and leaves.
// Swapping in a cross-process bus later means replacing this type, not its
// callers.
type Broadcaster struct {
	registry *Registry
	log      *slog.Logger
}

// NewBroadcaster constructs a Broadcaster over the given registry.
func NewBroadcaster(registry *Registry, log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{registry: registry, log: log}
}

// Broadcast sends event to every connection subscribed to roomID, skipping
// excludeConnID when non-empty. It returns the number of successful deliveries.
func (b *Broadcaster) Broadcast(roomID string, event any, excludeConnID string) int {
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Error("fanout: encode event", "room", roomID, "err", err)
		return 0
	}

	delivered := 0
	for _, s := range b.registry.RoomSessions(roomID, excludeConnID) {
		if err := s.Send(payload); err != nil {
			b.log.Warn("fanout: delivery failed", "room", roomID, "conn", s.ID(), "err", err)
			continue
		}
		delivered++
	}
	return delivered
}

// Unicast delivers event directly to one session. Used for direct replies and
// error notices.
func (b *Broadcaster) Unicast(s Session, event any) {
	if s == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Error("fanout: encode event", "conn", s.ID(), "err", err)
		return
	}
	if err := s.Send(payload); err != nil {
		b.log.Warn("fanout: unicast failed", "conn", s.ID(), "err", err)
	}
}
