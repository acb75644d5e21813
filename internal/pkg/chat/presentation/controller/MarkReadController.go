package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/task"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/usecase"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/auth"
	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
)

// MarkReadController records a read receipt. The write goes through the queue
// so a burst of receipts from a busy room never blocks the request path; when
// no queue client is configured the receipt is written inline.
type MarkReadController struct {
	UC     *usecase.MarkReadUseCase
	Client qport.Client
	log    *slog.Logger
}

func NewMarkReadController(pool *pgxpool.Pool, client qport.Client, log *slog.Logger) *MarkReadController {
	if log == nil {
		log = slog.Default()
	}
	return &MarkReadController{
		UC:     usecase.NewMarkReadUseCase(adapter.NewPgMessageStore(pool)),
		Client: client,
		log:    log,
	}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID := c.Param("messageId")
		if messageID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "messageId is required"})
			return
		}

		ident, ok := auth.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		now := time.Now().UTC()

		if h.Client != nil {
			payload, err := json.Marshal(task.MarkReadTaskPayload{
				MessageID: messageID,
				UserID:    ident.UserID,
				ReadAt:    now,
			})
			if err == nil {
				_, err = h.Client.Enqueue(c.Request.Context(),
					qport.Task{Type: task.MarkReadTaskType, Payload: payload},
					qport.EnqueueOption{Queue: "chat", MaxRetry: 3},
				)
			}
			if err == nil {
				c.JSON(http.StatusAccepted, gin.H{"queued": true})
				return
			}
			h.log.Error("mark read enqueue failed, writing inline", "message", messageID, "err", err)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.MarkReadInput{MessageID: messageID, UserID: ident.UserID, ReadAt: now})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, chat.ErrMessageNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"read": true})
	}
}
