package task

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
)

// MarkReadTaskType is the queue task name for recording read receipts.
const MarkReadTaskType = "chat:mark_read"

// MarkReadTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid coupling with JSON tags.
type MarkReadTaskPayload struct {
	MessageID string    `json:"messageId"`
	UserID    string    `json:"userId"`
	ReadAt    time.Time `json:"readAt"`
}

// RegisterMarkReadTask binds the task handler to the provided server.
// Receipts are idempotent, so retried deliveries are harmless.
func RegisterMarkReadTask(srv qport.Server, pool *pgxpool.Pool) {
	srv.Register(MarkReadTaskType, func(ctx context.Context, t qport.Task) error {
		var p MarkReadTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		uc := usecase.NewMarkReadUseCase(repoAdapter.NewPgMessageStore(pool))

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return uc.Execute(ctx, usecase.MarkReadInput{
			MessageID: p.MessageID,
			UserID:    p.UserID,
			ReadAt:    p.ReadAt,
		})
	})
}
