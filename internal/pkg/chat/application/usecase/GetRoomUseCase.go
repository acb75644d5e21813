package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// GetRoomInput wraps the room identifier.
type GetRoomInput struct {
	RoomID string
}

// GetRoomOutput pairs the room with its roster for display.
type GetRoomOutput struct {
	Room    chat.Room
	Members []chat.RoomMember
}

// GetRoomUseCase fetches one active room and its members.
type GetRoomUseCase struct {
	Rooms repository.RoomStore
}

func NewGetRoomUseCase(rooms repository.RoomStore) *GetRoomUseCase {
	return &GetRoomUseCase{Rooms: rooms}
}

func (uc *GetRoomUseCase) Execute(ctx context.Context, in GetRoomInput) (*GetRoomOutput, error) {
	if in.RoomID == "" {
		return nil, fmt.Errorf("roomId is required")
	}

	room, err := uc.Rooms.Find(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	members, err := uc.Rooms.MembersOf(ctx, in.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &GetRoomOutput{Room: *room, Members: members}, nil
}
