// Package live pushes the display feature-flag object to connected UI
// clients over websockets.
package live

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// message types on the wire
const (
	typeConfigUpdate      = "configUpdate"
	typeAdminUpdateConfig = "adminUpdateConfig"
)

type envelope struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// Hub broadcasts the current flag object to every client on connect and on
// each admin update. Slow or broken clients are dropped rather than allowed
// to stall the broadcast.
type Hub struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	flags    map[string]any
	conns    map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		flags: map[string]any{
			"enableImage": true,
			"enableText":  true,
			"price":       100,
			"time":        10,
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// Serve upgrades the connection, sends the current snapshot and then reads
// admin updates until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.conns[conn] = true
	snapshot := h.snapshotLocked()
	h.writeLocked(conn, snapshot)
	h.mu.Unlock()

	go h.readLoop(conn)
	return nil
}

// Update merges the patch into the flags and broadcasts the result.
func (h *Hub) Update(patch map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, value := range patch {
		h.flags[key] = value
	}
	snapshot := h.snapshotLocked()
	for conn := range h.conns {
		h.writeLocked(conn, snapshot)
	}
}

// Flags returns a copy of the current flag object.
func (h *Hub) Flags() map[string]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked().Config
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == typeAdminUpdateConfig && msg.Config != nil {
			h.Update(msg.Config)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
	}
}

func (h *Hub) snapshotLocked() envelope {
	config := make(map[string]any, len(h.flags))
	for key, value := range h.flags {
		config[key] = value
	}
	return envelope{Type: typeConfigUpdate, Config: config}
}

// writeLocked sends with a deadline and drops the client on failure. Called
// with h.mu held, which also serializes writers per connection.
func (h *Hub) writeLocked(conn *websocket.Conn, msg envelope) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("drop websocket client: %v", err)
		delete(h.conns, conn)
		conn.Close()
	}
}
