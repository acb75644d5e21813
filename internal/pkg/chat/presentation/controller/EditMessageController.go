package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/usecase"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/auth"
	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

// EditMessageController lets an author amend a recent message.
type EditMessageController struct {
	UC *usecase.EditMessageUseCase
}

func NewEditMessageController(pool *pgxpool.Pool) *EditMessageController {
	return &EditMessageController{UC: usecase.NewEditMessageUseCase(adapter.NewPgMessageStore(pool))}
}

type editMessageRequest struct {
	Content   *string `json:"content"`
	ImageData *string `json:"imageData"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
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

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, usecase.EditMessageInput{
			MessageID: messageID,
			Requester: ident,
			Content:   req.Content,
			ImageData: req.ImageData,
		})
		if err != nil {
			c.JSON(editStatusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": realtime.ToMessagePayload(*updated)})
	}
}

func editStatusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrEditWindowExpired):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
