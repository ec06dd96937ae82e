package websocket

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
	EventRefresh Event = "refresh"
	EventError   Event = "error"
	EventPong    Event = "pong"
)

// RefreshEvent tells a connected dashboard that a new snapshot landed
// and how much it holds, so the client can decide whether to re-query.
type RefreshEvent struct {
	Event     Event  `json:"event"`
	Version   uint64 `json:"version"`
	FetchedAt string `json:"fetched_at"`
	Sessions  int    `json:"sessions"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
