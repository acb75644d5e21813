package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		RoomID:         "room-1",
		SenderID:       "user-1",
		SenderUsername: "asha",
		Type:           MessageTypeText,
		Content:        "train is packed today",
	}
}

func TestNewMessageTrimsContent(t *testing.T) {
	m := validMessage()
	m.Content = "  hello  "

	got, err := NewMessage(m)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestNewMessageRejectsEmptyContent(t *testing.T) {
	m := validMessage()
	m.Content = "   "

	_, err := NewMessage(m)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessageAllowsImageWithoutContent(t *testing.T) {
	img := "data:image/png;base64,xyz"
	m := validMessage()
	m.Content = ""
	m.ImageData = &img
	m.Type = MessageTypeImage

	_, err := NewMessage(m)
	assert.NoError(t, err)
}

func TestNewMessageRejectsOverlongContent(t *testing.T) {
	m := validMessage()
	m.Content = strings.Repeat("a", MaxContentLength+1)

	_, err := NewMessage(m)
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestNewMessageAcceptsMaxLengthContent(t *testing.T) {
	m := validMessage()
	m.Content = strings.Repeat("a", MaxContentLength)

	_, err := NewMessage(m)
	assert.NoError(t, err)
}

func TestNewMessageCountsCharactersNotBytes(t *testing.T) {
	// 1000 Devanagari characters is 3000 bytes but exactly at the cap.
	m := validMessage()
	m.Content = strings.Repeat("र", MaxContentLength)

	_, err := NewMessage(m)
	assert.NoError(t, err)

	m.Content = strings.Repeat("र", MaxContentLength+1)
	_, err = NewMessage(m)
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestCanEditInsideWindow(t *testing.T) {
	created := time.Now().UTC()
	m := validMessage()
	m.ID = "m1"
	m.CreatedAt = created

	assert.NoError(t, m.CanEdit("user-1", created.Add(EditWindow-time.Second)))
}

func TestCanEditAfterWindowExpires(t *testing.T) {
	created := time.Now().UTC()
	m := validMessage()
	m.ID = "m1"
	m.CreatedAt = created

	err := m.CanEdit("user-1", created.Add(EditWindow+time.Second))
	assert.ErrorIs(t, err, ErrEditWindowExpired)
}

func TestCanEditRejectsOtherUsers(t *testing.T) {
	m := validMessage()
	m.ID = "m1"
	m.CreatedAt = time.Now().UTC()

	err := m.CanEdit("user-2", m.CreatedAt)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCanDeleteAuthorAndModerators(t *testing.T) {
	m := validMessage()
	m.ID = "m1"

	assert.NoError(t, m.CanDelete(Identity{UserID: "user-1", Role: RoleUser}))
	assert.NoError(t, m.CanDelete(Identity{UserID: "mod-9", Role: RoleModerator}))
	assert.NoError(t, m.CanDelete(Identity{UserID: "adm-9", Role: RoleAdmin}))
	assert.ErrorIs(t, m.CanDelete(Identity{UserID: "user-2", Role: RoleUser}), ErrUnauthorized)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	m := validMessage()
	at := time.Now().UTC()

	assert.True(t, m.MarkRead("user-2", at))
	assert.False(t, m.MarkRead("user-2", at.Add(time.Minute)))
	require.Len(t, m.ReadBy, 1)
	assert.Equal(t, at, m.ReadBy[0].ReadAt)
}

func TestCommuteUpdateText(t *testing.T) {
	assert.Contains(t, CommuteUpdateText(CommuteDelayed), "delay")
	assert.Contains(t, CommuteUpdateText(CommuteOnTime), "on time")
	assert.Equal(t, "Commute update", CommuteUpdateText(CommuteUpdateType("bogus")))
}
