package usecase

import (
	"context"
	"fmt"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// ListRoomsInput caps how many rooms are returned.
type ListRoomsInput struct {
	Limit int
}

// ListRoomsUseCase returns active rooms, most recently active first.
type ListRoomsUseCase struct {
	Rooms repository.RoomStore
}

func NewListRoomsUseCase(rooms repository.RoomStore) *ListRoomsUseCase {
	return &ListRoomsUseCase{Rooms: rooms}
}

func (uc *ListRoomsUseCase) Execute(ctx context.Context, in ListRoomsInput) ([]chat.Room, error) {
	if in.Limit <= 0 || in.Limit > 50 {
		in.Limit = 50
	}
	rooms, err := uc.Rooms.ListActive(ctx, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rooms, nil
}
