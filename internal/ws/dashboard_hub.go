package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
)

const (
	writeWait  = writeWaitSecs * time.Second
	pongWait   = pongWaitSecs * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// DashboardHub pushes full dashboard overviews to connected teacher
// clients on every sync refresh.
type DashboardHub struct {
	register   chan *dashboardClient
	unregister chan *dashboardClient
	broadcast  chan []byte
	clients    map[*dashboardClient]struct{}
}

func NewDashboardHub() *DashboardHub {
	return &DashboardHub{
		register:   make(chan *dashboardClient),
		unregister: make(chan *dashboardClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*dashboardClient]struct{}),
	}
}

func (h *DashboardHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes the overview to every dashboard client.
func (h *DashboardHub) Broadcast(ov *dashboard.Overview) {
	if h == nil {
		return
	}
	data, err := json.Marshal(ov)
	if err != nil {
		return
	}
	h.broadcast <- data
}

type dashboardClient struct {
	hub  *DashboardHub
	conn *websocket.Conn
	send chan []byte
}

func newDashboardClient(hub *DashboardHub, conn *websocket.Conn) *dashboardClient {
	return &dashboardClient{hub: hub, conn: conn, send: make(chan []byte, sendBufferSize)}
}

func (c *dashboardClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *dashboardClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
