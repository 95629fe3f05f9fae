package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/session"
	ws "github.com/smileie/smileie-backend/internal/websocket"
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

// WSHandler streams session lifecycle events to open dashboard tabs.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/session?token=...
// Sends hello with the current profile, answers pings, and forwards a logout
// performed anywhere for this session before closing the socket.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	profile, ok := middleware.GetProfile(c)
	if claims == nil || !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return
	}

	// Subscribe before upgrading so a logout racing the handshake is not lost.
	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.SessionEventsChannel(claims.ID))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Error().Err(err).Msg("Session channel subscribe failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("user_id", profile.ID).
		Str("session_id", claims.ID).
		Logger()

	if err := ws.WriteTyped(conn, ws.HelloResponse{Event: ws.EventHello, Profile: profile}); err != nil {
		return
	}
	wsLog.Debug().Msg("Session stream attached")

	// Only this goroutine writes to conn; the reader hands actions over.
	actions := make(chan ws.Action)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	events := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			return
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			default:
				_ = ws.WriteError(conn, "unknown action: "+string(action))
			}
		case msg, ok := <-events:
			if !ok {
				return
			}
			var evt session.Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed session event")
				continue
			}
			if evt.Type != session.EventLogout {
				continue
			}
			_ = ws.WriteTyped(conn, ws.LogoutResponse{
				Event:    ws.EventLogout,
				Redirect: model.RouteLogin,
				At:       evt.At,
			})
			wsLog.Info().Msg("Session logged out, closing stream")
			ws.CloseNormal(conn, "session ended")
			return
		}
	}
}
