package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput updates message content and/or image within the edit window.
// Nil fields are left unchanged.
type EditMessageInput struct {
	MessageID string
	Requester chat.Identity
	Content   *string
	ImageData *string
	Now       time.Time // zero means time.Now
}

// EditMessageUseCase lets the original author amend a message for up to
// chat.EditWindow after creation.
type EditMessageUseCase struct {
	Messages repository.MessageStore
}

func NewEditMessageUseCase(messages repository.MessageStore) *EditMessageUseCase {
	return &EditMessageUseCase{Messages: messages}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	if in.MessageID == "" {
		return nil, fmt.Errorf("messageId is required")
	}
	if in.Content == nil && in.ImageData == nil {
		return nil, chat.ErrEmptyMessage
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	msg, err := uc.Messages.Get(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := msg.CanEdit(in.Requester.UserID, now); err != nil {
		return nil, err
	}

	if in.Content != nil {
		trimmed := strings.TrimSpace(*in.Content)
		if trimmed == "" && in.ImageData == nil && msg.ImageData == nil {
			return nil, chat.ErrEmptyMessage
		}
		if utf8.RuneCountInString(trimmed) > chat.MaxContentLength {
			return nil, chat.ErrMessageTooLong
		}
		in.Content = &trimmed
	}

	if err := uc.Messages.Edit(ctx, in.MessageID, in.Content, in.ImageData, now); err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	updated, err := uc.Messages.Get(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return updated, nil
}
