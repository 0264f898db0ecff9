package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type Event struct {
	UserID  uuid.UUID   `json:"-"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventAttemptGraded     = "attempt_graded"
	EventCertificateIssued = "certificate_issued"
)

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var events = make(chan *Event, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-events:
			clientsMu.RLock()
			conn, ok := clients[event.UserID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error sending %s event to client %s: %v", event.Type, event.UserID, err)
				conn.Close()
				clientsMu.Lock()
				delete(clients, event.UserID)
				clientsMu.Unlock()
			}
		}
	}
}

// NotifyUser queues an event for one user's open connection. Drops the
// event when the hub's buffer is full rather than blocking a request.
func NotifyUser(userID uuid.UUID, eventType string, payload interface{}) {
	select {
	case events <- &Event{UserID: userID, Type: eventType, Payload: payload}:
	default:
		log.Printf("Notification buffer full, dropping %s event for user %s", eventType, userID)
	}
}

func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		token, ok := conn.Locals("user").(*jwt.Token)
		if !ok {
			conn.Close()
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		raw, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			conn.Close()
			return
		}

		client := &Client{UserID: userID, Conn: conn}
		Register <- client
		defer func() {
			Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	})
}
