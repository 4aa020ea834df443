package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/platemate/dinein-api/models"
)

// Event types pushed to staff dashboards
const (
	EventSessionOpened  = "session_opened"
	EventSessionClosed  = "session_closed"
	EventSessionExpired = "session_expired"
	EventOrderCreated   = "order_created"
	EventOrderStatus    = "order_status"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected staff client (staff, kitchen, admin) and fans
// events out to them. Delivery is best-effort: a failed write only drops
// that client.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the hub with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func BroadcastSessionOpened(session models.TableSession) {
	broadcast(Message{Event: EventSessionOpened, Data: session})
}

func BroadcastSessionClosed(session models.TableSession) {
	broadcast(Message{Event: EventSessionClosed, Data: session})
}

func BroadcastSessionsExpired(sessions []models.TableSession) {
	if len(sessions) == 0 {
		return
	}
	broadcast(Message{Event: EventSessionExpired, Data: sessions})
}

func BroadcastOrderCreated(order models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{Event: EventOrderStatus, Data: order})
}

func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
