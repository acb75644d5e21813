package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/usecase"
	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

// GetMessagesController handles paginated history fetches (one controller per endpoint)
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(pool *pgxpool.Pool) *GetMessagesController {
	uc := usecase.NewGetMessagesUseCase(adapter.NewPgRoomStore(pool), adapter.NewPgMessageStore(pool))
	return &GetMessagesController{UC: uc}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
			return
		}

		// Defaults
		page := 1
		limit := 50

		if v := c.Query("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				page = n
			}
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.GetMessagesInput{RoomID: roomID, Page: page, Limit: limit})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, chat.ErrRoomNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		msgs := make([]realtime.MessagePayload, 0, len(out.Messages))
		for _, m := range out.Messages {
			msgs = append(msgs, realtime.ToMessagePayload(m))
		}

		c.JSON(http.StatusOK, gin.H{
			"messages":      msgs,
			"currentPage":   out.CurrentPage,
			"totalMessages": out.TotalMessages,
			"hasMore":       out.HasMore,
		})
	}
}
