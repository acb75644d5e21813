package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	repository "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

// ChatSocketController handles the websocket endpoint for realtime chat traffic.
type ChatSocketController struct {
	directory repository.UserDirectory
	manager   *realtime.Manager
	log       *slog.Logger
}

func NewChatSocketController(directory repository.UserDirectory, manager *realtime.Manager, log *slog.Logger) *ChatSocketController {
	if log == nil {
		log = slog.Default()
	}
	return &ChatSocketController{directory: directory, manager: manager, log: log}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when deployed behind a gateway.
		return true
	},
}

type connectedFrame struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

const defaultReadTimeout = 60 * time.Second

// Handle authenticates the handshake, upgrades to websocket and reads frames
// until the client disconnects. The token comes from the "token" query
// parameter or the Authorization header; clients are rejected before upgrade.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		ident, err := ctl.directory.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Error("websocket upgrade failed", "user", ident.Username, "err", err)
			return
		}

		conn := realtime.NewConnection(ident.UserID, ident.Username, ws)
		conn.Start()

		ctx := c.Request.Context()
		ctl.manager.Attach(ctx, conn)
		defer func() {
			ctl.manager.Disconnect(ctx, conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ack := connectedFrame{Type: "connected", UserID: ident.UserID, Username: ident.Username}
		if payload, err := json.Marshal(ack); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.log.Debug("websocket read ended", "conn", conn.ID(), "err", err)
				return
			}

			var cmd realtime.Command
			if err := json.Unmarshal(data, &cmd); err != nil {
				ctl.log.Debug("dropping malformed frame", "conn", conn.ID())
				continue
			}

			ctl.manager.Dispatch(ctx, conn, cmd)
		}
	}
}
