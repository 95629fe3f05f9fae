package websocket

import (
	"time"

	"github.com/smileie/smileie-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventHello  Event = "hello"
	EventLogout Event = "logout"
	EventPong   Event = "pong"
)

// HelloResponse is the first frame after upgrade.
type HelloResponse struct {
	Event   Event                `json:"event"`
	Profile model.SessionProfile `json:"profile"`
}

// LogoutResponse tells the client its session is gone and it must route to
// the login screen. The server closes the socket after sending it.
type LogoutResponse struct {
	Event    Event     `json:"event"`
	Redirect string    `json:"redirect"`
	At       time.Time `json:"at"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
