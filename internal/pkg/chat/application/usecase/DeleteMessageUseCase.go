package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput soft-deletes a message on behalf of the requester.
type DeleteMessageInput struct {
	MessageID string
	Requester chat.Identity
}

// DeleteMessageUseCase flags a message deleted. The author may delete their
// own messages; moderators and admins may delete anyone's. Deleting an
// already-deleted message is a no-op.
type DeleteMessageUseCase struct {
	Messages repository.MessageStore
}

func NewDeleteMessageUseCase(messages repository.MessageStore) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Messages: messages}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" {
		return fmt.Errorf("messageId is required")
	}

	msg, err := uc.Messages.Get(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.IsDeleted {
		return nil
	}

	if err := msg.CanDelete(in.Requester); err != nil {
		return err
	}

	if err := uc.Messages.SoftDelete(ctx, in.MessageID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
