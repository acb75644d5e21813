package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries parameters to fetch a room's message history.
type GetMessagesInput struct {
	RoomID string
	Page   int
	Limit  int
}

// GetMessagesOutput returns one page in chronological order plus paging state.
type GetMessagesOutput struct {
	Messages      []chat.Message
	CurrentPage   int
	TotalMessages int
	HasMore       bool
}

// GetMessagesUseCase fetches paginated history for a room, excluding
// soft-deleted messages.
type GetMessagesUseCase struct {
	Rooms    repository.RoomStore
	Messages repository.MessageStore
}

func NewGetMessagesUseCase(rooms repository.RoomStore, messages repository.MessageStore) *GetMessagesUseCase {
	return &GetMessagesUseCase{Rooms: rooms, Messages: messages}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) (*GetMessagesOutput, error) {
	if in.RoomID == "" {
		return nil, fmt.Errorf("roomId is required")
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}

	if _, err := uc.Rooms.Find(ctx, in.RoomID); err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, total, err := uc.Messages.ListByRoom(ctx, in.RoomID, in.Page, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Store returns newest first; reverse so the page reads chronologically.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return &GetMessagesOutput{
		Messages:      msgs,
		CurrentPage:   in.Page,
		TotalMessages: total,
		HasMore:       len(msgs) == in.Limit,
	}, nil
}
