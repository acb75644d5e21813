package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/auth"
	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/presentation/controller"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, client qport.Client,
	directory repository.UserDirectory, manager *realtime.Manager, log *slog.Logger) {

	listRoomsCtl := controller.NewListRoomsController(pool)
	getRoomCtl := controller.NewGetRoomController(pool)
	getMsgsCtl := controller.NewGetMessagesController(pool)
	editMsgCtl := controller.NewEditMessageController(pool)
	deleteMsgCtl := controller.NewDeleteMessageController(pool)
	markReadCtl := controller.NewMarkReadController(pool, client, log)
	socketCtl := controller.NewChatSocketController(directory, manager, log)

	// GET /api/v1/chat/ws -> websocket endpoint; authenticates its own handshake
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", auth.Middleware(directory))

	// GET /api/v1/rooms -> list active rooms
	authed.GET("/rooms", listRoomsCtl.Handle())

	// GET /api/v1/rooms/:roomId -> room details with member roster
	authed.GET("/rooms/:roomId", getRoomCtl.Handle())

	// GET /api/v1/rooms/:roomId/messages -> paginated message history
	authed.GET("/rooms/:roomId/messages", getMsgsCtl.Handle())

	// PUT /api/v1/messages/:messageId -> edit a recent message
	authed.PUT("/messages/:messageId", editMsgCtl.Handle())

	// DELETE /api/v1/messages/:messageId -> soft-delete a message
	authed.DELETE("/messages/:messageId", deleteMsgCtl.Handle())

	// POST /api/v1/messages/:messageId/read -> record a read receipt
	authed.POST("/messages/:messageId/read", markReadCtl.Handle())
}
