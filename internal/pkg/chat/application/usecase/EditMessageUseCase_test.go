package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
)

func strptr(s string) *string { return &s }

func editFixture(createdAt time.Time) (*memMessageStore, *EditMessageUseCase) {
	store := newMemMessageStore(chat.Message{
		ID:             "m1",
		RoomID:         "r1",
		SenderID:       "u1",
		SenderUsername: "asha",
		Type:           chat.MessageTypeText,
		Content:        "original",
		CreatedAt:      createdAt,
	})
	return store, NewEditMessageUseCase(store)
}

func TestEditMessageWithinWindow(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_, uc := editFixture(created)

	updated, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Content:   strptr("corrected"),
		Now:       created.Add(14*time.Minute + 59*time.Second),
	})

	require.NoError(t, err)
	assert.Equal(t, "corrected", updated.Content)
	require.NotNil(t, updated.EditedAt)
}

func TestEditMessageAfterWindow(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_, uc := editFixture(created)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Content:   strptr("too late"),
		Now:       created.Add(15*time.Minute + time.Second),
	})

	assert.ErrorIs(t, err, chat.ErrEditWindowExpired)
}

func TestEditMessageOnlyAuthor(t *testing.T) {
	created := time.Now().UTC()
	_, uc := editFixture(created)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u2", Role: chat.RoleAdmin},
		Content:   strptr("hijack"),
		Now:       created,
	})

	// even admins cannot edit someone else's message
	assert.ErrorIs(t, err, chat.ErrUnauthorized)
}

func TestEditMessageRejectsOverlongContent(t *testing.T) {
	created := time.Now().UTC()
	_, uc := editFixture(created)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Content:   strptr(strings.Repeat("a", chat.MaxContentLength+1)),
		Now:       created,
	})

	assert.ErrorIs(t, err, chat.ErrMessageTooLong)
}

func TestEditMessageCountsCharactersNotBytes(t *testing.T) {
	created := time.Now().UTC()
	_, uc := editFixture(created)

	// multibyte content at the cap is fine even though it exceeds 1000 bytes
	updated, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Content:   strptr(strings.Repeat("र", chat.MaxContentLength)),
		Now:       created,
	})

	require.NoError(t, err)
	assert.Equal(t, chat.MaxContentLength, len([]rune(updated.Content)))
}

func TestEditMessageRequiresSomeChange(t *testing.T) {
	created := time.Now().UTC()
	_, uc := editFixture(created)

	_, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Now:       created,
	})

	assert.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestEditDeletedMessage(t *testing.T) {
	created := time.Now().UTC()
	store, uc := editFixture(created)
	require.NoError(t, store.SoftDelete(context.Background(), "m1", created))

	_, err := uc.Execute(context.Background(), EditMessageInput{
		MessageID: "m1",
		Requester: chat.Identity{UserID: "u1", Role: chat.RoleUser},
		Content:   strptr("revive"),
		Now:       created,
	})

	assert.ErrorIs(t, err, chat.ErrMessageNotFound)
}
