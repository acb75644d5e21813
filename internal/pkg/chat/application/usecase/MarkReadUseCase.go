package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput records that a user has read a message.
type MarkReadInput struct {
	MessageID string
	UserID    string
	ReadAt    time.Time // zero means time.Now
}

// MarkReadUseCase appends a read receipt. A user appears at most once in a
// message's read list, so repeated calls are no-ops.
type MarkReadUseCase struct {
	Messages repository.MessageStore
}

func NewMarkReadUseCase(messages repository.MessageStore) *MarkReadUseCase {
	return &MarkReadUseCase{Messages: messages}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	if in.MessageID == "" || in.UserID == "" {
		return fmt.Errorf("messageId and userId are required")
	}
	at := in.ReadAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if _, err := uc.Messages.Get(ctx, in.MessageID); err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Messages.MarkRead(ctx, in.MessageID, in.UserID, at); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
