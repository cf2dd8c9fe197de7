package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/api/notify"
)

// realtimeWriteTimeout bounds a single websocket write so one stuck
// connection cannot stall a delivery worker
const realtimeWriteTimeout = 10 * time.Second

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// NotificationHub tracks connected users (userId -> *websocket.Conn) and
// implements the realtime notification channel
type NotificationHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

// NewNotificationHub creates an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*websocket.Conn),
	}
}

// HandleWebSocket upgrades the connection and registers the user for
// realtime alerts
func (h *NotificationHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	h.clients[userID] = conn
	h.mutex.Unlock()
	zap.S().Infow("user connected to /ws/notifications", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		zap.S().Infow("user disconnected from /ws/notifications", "userId", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// Deliver pushes a payload to the user's open connection. A user without an
// open connection is not a delivery failure, there is simply nothing to push.
func (h *NotificationHub) Deliver(userID string, payload notify.Payload) error {
	h.mutex.Lock()
	conn, exists := h.clients[userID]
	h.mutex.Unlock()

	if !exists {
		zap.S().Debugw("no realtime connection for user", "userId", userID)
		return nil
	}

	conn.SetWriteDeadline(time.Now().Add(realtimeWriteTimeout))
	err := conn.WriteJSON(map[string]interface{}{
		"event": payload.Kind,
		"data":  payload,
	})
	if err != nil {
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		conn.Close()
		return err
	}
	return nil
}

// Connected returns the number of open realtime connections
func (h *NotificationHub) Connected() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
