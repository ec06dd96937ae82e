package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/courtsync/concilia-backend/internal/repository"
	ws "github.com/courtsync/concilia-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler streams refresh events to connected dashboards so they can
// re-query the pending queue when a new snapshot lands.
type WSHandler struct {
	snapshots *repository.SnapshotRepository
	log       zerolog.Logger
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(snapshots *repository.SnapshotRepository, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		snapshots: snapshots,
		log:       log.With().Str("component", "ws_handler").Logger(),
		upgrader:  buildUpgrader(allowedOrigins),
	}
}

// RefreshStream godoc
// WS /ws/v1/refresh
// Upgrades to WebSocket and forwards each refresh event published by
// the reconcile service as a typed envelope. The only client action is
// a ping, answered with a pong; everything else is ignored.
func (h *WSHandler) RefreshStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	wsLog := h.log.With().Str("client_id", clientID).Logger()
	wsLog.Info().Msg("Dashboard connected")

	ctx := c.Request.Context()
	sub := h.snapshots.SubscribeRefresh(ctx)
	defer sub.Close()

	// All writes happen on this goroutine; the read loop only forwards
	// parsed actions.
	actions := make(chan ws.Action, 4)
	go func() {
		defer close(actions)
		for {
			var env ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &env); err != nil {
				return
			}
			select {
			case actions <- env.Action:
			default:
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case action, ok := <-actions:
			if !ok {
				return
			}
			if action == ws.ActionPing {
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				wsLog.Debug().Msg("ping failed, dropping client")
				return
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			var refresh repository.RefreshEvent
			if err := json.Unmarshal([]byte(msg.Payload), &refresh); err != nil {
				wsLog.Warn().Err(err).Msg("malformed refresh event, skipping")
				continue
			}
			out := ws.RefreshEvent{
				Event:     ws.EventRefresh,
				Version:   refresh.Version,
				FetchedAt: refresh.FetchedAt.UTC().Format(time.RFC3339),
				Sessions:  refresh.Sessions,
			}
			if err := ws.WriteTyped(conn, out); err != nil {
				wsLog.Debug().Err(err).Msg("write failed, dropping client")
				return
			}
		}
	}
}
