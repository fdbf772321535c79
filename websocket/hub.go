package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/models"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// OrderEvent is pushed to every connected admin when an order moves through
// its lifecycle.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    uuid.UUID `json:"order_id"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventOrderCreated   = "order_created"
	EventProofSubmitted = "proof_submitted"
	EventOrderApproved  = "order_approved"
	EventOrderRejected  = "order_rejected"
)

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *OrderEvent, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Admin feed client connected: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Admin feed client disconnected: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			var broken []uuid.UUID
			clientsMu.RLock()
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing order event to client %s: %v", userID, err)
					conn.Close()
					broken = append(broken, userID)
				}
			}
			clientsMu.RUnlock()

			if len(broken) > 0 {
				clientsMu.Lock()
				for _, userID := range broken {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// NotifyOrderEvent enqueues an event without ever blocking the request that
// produced it; a full queue drops the event.
func NotifyOrderEvent(eventType string, order *models.Order) {
	event := &OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		Reference:  order.Reference,
		Status:     order.Status,
		Amount:     order.Amount,
		UserID:     order.UserID,
		OccurredAt: time.Now(),
	}
	select {
	case Broadcast <- event:
	default:
		log.Printf("Order event queue full, dropping %s for order %s", eventType, order.ID)
	}
}
