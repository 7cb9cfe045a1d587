package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
)

// Student message types.
const (
	MsgFullscreenRequest = "fullscreen_request"
	MsgFullscreenExit    = "fullscreen_exit"
	MsgFullscreenState   = "fullscreen_state"
	MsgCountdownTick     = "countdown_tick"
	MsgAiCountdown       = "ai_countdown"
	MsgAiUnlocked        = "ai_unlocked"
	MsgCameraRelease     = "camera_release"
	MsgSessionTerminated = "session_terminated"
	MsgRefresh           = "refresh"
)

// StudentMessage is pushed to one student's browsing context.
type StudentMessage struct {
	Type         string              `json:"type"`
	InFullscreen bool                `json:"in_fullscreen,omitempty"`
	Blocked      bool                `json:"blocked,omitempty"`
	Remaining    int                 `json:"remaining,omitempty"`
	Elapsed      float64             `json:"elapsed,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	View         *syncer.StudentView `json:"view,omitempty"`
}

type studentNotification struct {
	username string
	payload  []byte
}

// StudentHub routes targeted messages (countdown ticks, unlocks,
// termination) to the single connection per student.
type StudentHub struct {
	register   chan *studentClient
	unregister chan *studentClient
	notify     chan studentNotification
	clients    map[string]*studentClient
}

func NewStudentHub() *StudentHub {
	return &StudentHub{
		register:   make(chan *studentClient),
		unregister: make(chan *studentClient),
		notify:     make(chan studentNotification, 256),
		clients:    make(map[string]*studentClient),
	}
}

func (h *StudentHub) Run() {
	for {
		select {
		case client := <-h.register:
			if existing, ok := h.clients[client.username]; ok {
				existing.conn.Close()
			}
			h.clients[client.username] = client
		case client := <-h.unregister:
			if stored, ok := h.clients[client.username]; ok && stored == client {
				delete(h.clients, client.username)
			}
		case msg := <-h.notify:
			if client, ok := h.clients[msg.username]; ok {
				select {
				case client.send <- msg.payload:
				default:
					client.conn.Close()
					delete(h.clients, msg.username)
				}
			}
		}
	}
}

func (h *StudentHub) Notify(username string, message StudentMessage) {
	if h == nil {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	h.notify <- studentNotification{username: username, payload: data}
}

type studentClient struct {
	hub      *StudentHub
	conn     *websocket.Conn
	send     chan []byte
	username string
}

func newStudentClient(hub *StudentHub, conn *websocket.Conn, username string) *studentClient {
	return &studentClient{hub: hub, conn: conn, send: make(chan []byte, 64), username: username}
}

func (c *studentClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
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

func (c *studentClient) writePump() {
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
