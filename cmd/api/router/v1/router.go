package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/port"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
	httpHandler "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/presentation/http"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client,
	directory repository.UserDirectory, manager *realtime.Manager, log *slog.Logger) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, pool, client, directory, manager, log)
}
