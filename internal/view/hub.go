package view

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// FragmentMessage is one rendered fragment pushed over the wire.
type FragmentMessage struct {
	Fragment string `json:"fragment"`
	HTML     string `json:"html"`
}

// Hub broadcasts rendered cart fragments to every connected page. It
// implements Surface. All writes go through the hub mutex: a gorilla
// connection allows only one concurrent writer.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

// Add registers a connection until its first failed write.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()
}

// Remove drops and closes a connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// Send writes one fragment to a single connection, serialized with the
// broadcasts so it never interleaves with them.
func (h *Hub) Send(conn *websocket.Conn, fragment, html string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteJSON(FragmentMessage{Fragment: fragment, HTML: html})
}

// Update broadcasts one fragment; connections that fail to accept the
// write are dropped. The mutex is held across the writes so concurrent
// broadcasts cannot interleave on one connection.
func (h *Hub) Update(fragment, html string) {
	msg := FragmentMessage{Fragment: fragment, HTML: html}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("view: dropping connection after write error: %v", err)
			delete(h.conns, c)
			c.Close()
		}
	}
}
