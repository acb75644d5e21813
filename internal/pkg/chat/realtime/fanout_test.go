package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fanoutFixture(t *testing.T) (*Registry, *Broadcaster, *stubSession, *stubSession, *stubSession) {
	t.Helper()
	r := NewRegistry()
	b := NewBroadcaster(r, nil)

	a := newStubSession("c1", "u1", "asha")
	bk := newStubSession("c2", "u2", "bikram")
	ch := newStubSession("c3", "u3", "chitra")
	for _, s := range []*stubSession{a, bk, ch} {
		r.Register(s)
		r.Subscribe(s.ID(), "room-1")
	}
	return r, b, a, bk, ch
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	_, b, a, bk, ch := fanoutFixture(t)

	delivered := b.Broadcast("room-1", NewRoomLeftEvent("room-1"), "")

	assert.Equal(t, 3, delivered)
	for _, s := range []*stubSession{a, bk, ch} {
		require.Len(t, s.sent(), 1)
		assert.Contains(t, s.lastFrame(), `"type":"room_left"`)
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	_, b, a, bk, ch := fanoutFixture(t)

	delivered := b.Broadcast("room-1", NewUserTypingEvent("u1", "asha", "room-1", true), "c1")

	assert.Equal(t, 2, delivered)
	assert.Empty(t, a.sent())
	assert.Len(t, bk.sent(), 1)
	assert.Len(t, ch.sent(), 1)
}

func TestBroadcastIsolatesFailedDeliveries(t *testing.T) {
	_, b, a, bk, ch := fanoutFixture(t)
	bk.failing = true

	delivered := b.Broadcast("room-1", NewRoomLeftEvent("room-1"), "")

	assert.Equal(t, 2, delivered)
	assert.Len(t, a.sent(), 1)
	assert.Empty(t, bk.sent())
	assert.Len(t, ch.sent(), 1)
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	r := NewRegistry()
	b := NewBroadcaster(r, nil)

	assert.Equal(t, 0, b.Broadcast("nobody-home", NewRoomLeftEvent("nobody-home"), ""))
}

func TestUnicast(t *testing.T) {
	_, b, a, _, _ := fanoutFixture(t)

	b.Unicast(a, NewErrorEvent("Room not found"))

	require.Len(t, a.sent(), 1)
	assert.Contains(t, a.lastFrame(), `"type":"error"`)
	assert.Contains(t, a.lastFrame(), "Room not found")
}
