package config

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development, the listed origins
// otherwise, and same-origin requests when the list is empty.
func NewWebSocket(development bool, origins []string) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	switch {
	case development:
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	case len(origins) > 0:
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return slices.Contains(origins, r.Header.Get("Origin"))
		}
	}
	return &WebSocket{Upgrader: upgrader}
}
