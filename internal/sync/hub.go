package sync

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans events out to the TCP and WebSocket subscribers of one profile.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]string
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

func (h *Hub) Add(conn net.Conn, profileID string) {
	h.mu.Lock()
	h.clients[conn] = profileID
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// AddWS registers ws and sends its welcome frame under the hub lock, so no
// event can interleave with it.
func (h *Hub) AddWS(ws *websocket.Conn, profileID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wsClients[ws] = profileID
	_ = ws.WriteMessage(
		websocket.TextMessage,
		[]byte(`{"type":"welcome","transport":"websocket"}`+"\n"),
	)
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Publish delivers ev to subscribers of ev.ProfileID only. Subscribers that
// fail a write are dropped.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for c, owner := range h.clients {
		if owner != ev.ProfileID {
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

	for ws, owner := range h.wsClients {
		if owner != ev.ProfileID {
			continue
		}
		_ = ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

func (h *Hub) subscribers(profileID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, owner := range h.clients {
		if owner == profileID {
			n++
		}
	}
	for _, owner := range h.wsClients {
		if owner == profileID {
			n++
		}
	}
	return n
}

func (h *Hub) Welcome(conn net.Conn, profileID string) {
	msg := fmt.Sprintf("{\"type\":\"welcome\",\"message\":\"connected\",\"subscribers\":%d}\n", h.subscribers(profileID))
	_, _ = conn.Write([]byte(msg))
}
