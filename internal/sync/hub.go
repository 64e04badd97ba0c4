package sync

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// Hub fans library events out to every connected sync client, over plain TCP
// lines and over WebSocket frames. Each connection carries an optional user
// filter; a filtered connection only sees that user's events.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]string // value is the user filter, "" means all
	wsClients map[*websocket.Conn]string
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[net.Conn]string),
		wsClients: make(map[*websocket.Conn]string),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = ""
	h.mu.Unlock()
}

// SetFilter narrows conn to one user's events. An empty user restores the
// unfiltered firehose.
func (h *Hub) SetFilter(conn net.Conn, userID string) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		h.clients[conn] = userID
	}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn, userID string) {
	h.mu.Lock()
	h.wsClients[ws] = userID
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Broadcast sends one library event as a JSON line to every connection whose
// filter accepts it. Dead connections are dropped on write failure.
func (h *Hub) Broadcast(ev LibraryEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c, filter := range h.clients {
		if filter != "" && filter != ev.UserID {
			continue
		}
		_ = c.SetWriteDeadline(time.Now().Add(2 * time.Second))
		w := bufio.NewWriter(c)
		if _, err := w.Write(b); err != nil {
			_ = c.Close()
			delete(h.clients, c)
			continue
		}
		if err := w.Flush(); err != nil {
			_ = c.Close()
			delete(h.clients, c)
			continue
		}
	}

	for ws, filter := range h.wsClients {
		if filter != "" && filter != ev.UserID {
			continue
		}
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

func (h *Hub) Welcome(conn net.Conn) {
	msg := fmt.Sprintf(
		"{\"type\":\"welcome\",\"message\":\"send SUB <user_id> to filter\",\"clients\":%d}\n",
		h.Count())
	_, _ = conn.Write([]byte(msg))
}
