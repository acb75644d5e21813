package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceFirstConnectionGoesOnline(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)

	first := p.OnConnect(context.Background(), "u1", "c1")

	assert.True(t, first)
	assert.True(t, p.Online("u1"))
	assert.Equal(t, []string{"u1:true"}, dir.transitions())
}

func TestPresenceSecondDeviceDoesNotRetrigger(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)
	ctx := context.Background()

	p.OnConnect(ctx, "u1", "c1")
	second := p.OnConnect(ctx, "u1", "c2")

	assert.False(t, second)
	assert.Equal(t, []string{"u1:true"}, dir.transitions())
}

func TestPresenceStaysOnlineUntilLastDeviceDrops(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)
	ctx := context.Background()

	p.OnConnect(ctx, "u1", "c1")
	p.OnConnect(ctx, "u1", "c2")

	assert.False(t, p.OnDisconnect(ctx, "u1", "c1"))
	assert.True(t, p.Online("u1"))

	assert.True(t, p.OnDisconnect(ctx, "u1", "c2"))
	assert.False(t, p.Online("u1"))
	assert.Equal(t, []string{"u1:true", "u1:false"}, dir.transitions())
}

func TestPresenceUnknownDisconnectIsNoop(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)
	ctx := context.Background()

	assert.False(t, p.OnDisconnect(ctx, "u1", "never-connected"))
	assert.Empty(t, dir.transitions())
}

func TestPresenceDuplicateDisconnectIsNoop(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)
	ctx := context.Background()

	p.OnConnect(ctx, "u1", "c1")
	p.OnDisconnect(ctx, "u1", "c1")
	assert.False(t, p.OnDisconnect(ctx, "u1", "c1"))

	assert.Equal(t, []string{"u1:true", "u1:false"}, dir.transitions())
}

func TestPresenceFlushOffline(t *testing.T) {
	dir := newFakeDirectory()
	p := NewPresence(dir, nil)
	ctx := context.Background()

	p.OnConnect(ctx, "u1", "c1")
	p.OnConnect(ctx, "u2", "c2")

	p.FlushOffline(ctx)

	assert.False(t, p.Online("u1"))
	assert.False(t, p.Online("u2"))
	assert.False(t, dir.online["u1"])
	assert.False(t, dir.online["u2"])
}
