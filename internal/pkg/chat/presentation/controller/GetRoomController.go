package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/usecase"
	chat "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/domain"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
)

// GetRoomController returns one room together with its member roster.
type GetRoomController struct {
	UC *usecase.GetRoomUseCase
}

func NewGetRoomController(pool *pgxpool.Pool) *GetRoomController {
	return &GetRoomController{UC: usecase.NewGetRoomUseCase(adapter.NewPgRoomStore(pool))}
}

func (h *GetRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, usecase.GetRoomInput{RoomID: roomID})
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

		c.JSON(http.StatusOK, gin.H{
			"room":    roomJSON(out.Room),
			"members": out.Members,
		})
	}
}
