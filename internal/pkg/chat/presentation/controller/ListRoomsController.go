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
)

// ListRoomsController returns active rooms ordered by recent activity.
type ListRoomsController struct {
	UC *usecase.ListRoomsUseCase
}

func NewListRoomsController(pool *pgxpool.Pool) *ListRoomsController {
	return &ListRoomsController{UC: usecase.NewListRoomsUseCase(adapter.NewPgRoomStore(pool))}
}

func (h *ListRoomsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		rooms, err := h.UC.Execute(ctx, usecase.ListRoomsInput{Limit: limit})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, roomJSON(r))
		}
		c.JSON(http.StatusOK, gin.H{"rooms": out, "count": len(out)})
	}
}

// roomJSON renders a room for HTTP responses; shared with GetRoomController.
func roomJSON(r chat.Room) gin.H {
	return gin.H{
		"id":            r.ID,
		"name":          r.Name,
		"description":   r.Description,
		"type":          r.Type,
		"routeId":       r.RouteID,
		"stationId":     r.StationID,
		"memberCount":   r.MemberCount,
		"isActive":      r.IsActive,
		"lastMessageAt": r.LastMessageAt,
		"createdAt":     r.CreatedAt,
	}
}
