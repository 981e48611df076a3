// Package ws bridges the notifier hub to WebSocket clients.
package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/user/property-monitor/internal/notifier"
)

const writeTimeout = 10 * time.Second

// Handler upgrades HTTP connections and streams hub events to them.
type Handler struct {
	hub      *notifier.Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *notifier.Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is served from a different origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS subscribes the connection to the hub and pumps events until either
// side goes away. Heartbeats arrive as ordinary events, so a stalled write
// surfaces within one heartbeat interval and prunes the subscriber.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	sub := h.hub.Subscribe()

	// Reader goroutine: clients send nothing meaningful, but reading is what
	// detects the close frame.
	go func() {
		defer h.hub.Unsubscribe(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer conn.Close()
	for event := range sub.Events() {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			h.hub.Unsubscribe(sub)
			// Drain so the hub's close of the channel is observed.
			for range sub.Events() {
			}
			return
		}
	}
}
