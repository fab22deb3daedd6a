package web

import (
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/guslan/ch8"
)

var upgrader = websocket.Upgrader{} // use default options

// Boot implements ch8.Display.
func (server *Server) Boot() error {
	return nil
}

func (server *Server) setWs(conn *websocket.Conn) {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.socket = conn
}

func (server *Server) unsetWs() {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	server.socket = nil
}

// Render implements ch8.Display. Frames are sent packed, 8 pixels per byte.
func (server *Server) Render(screen ch8.Screen) error {
	server.wsMutex.Lock()
	defer server.wsMutex.Unlock()

	if server.socket == nil {
		return nil
	}

	if err := server.socket.WriteMessage(websocket.BinaryMessage, screen.Packed()); err != nil {
		slog.Warn("Error writing display frame", slog.Any("error", err))
	}

	return nil
}
