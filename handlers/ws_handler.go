package handlers

import (
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shiv90154/carrerpath-backend/websocket"
)

// ServeAdminOrderFeed keeps an admin connected to the live order-event
// stream. The route is behind Protected + AdminRequired; the connection only
// receives, inbound frames are drained to detect disconnects.
func ServeAdminOrderFeed(conn *websocketcontrib.Conn) {
	token, ok := conn.Locals("user").(*jwt.Token)
	if !ok {
		conn.Close()
		return
	}
	claims := token.Claims.(jwt.MapClaims)
	userID, err := uuid.Parse(claims["user_id"].(string))
	if err != nil {
		conn.Close()
		return
	}

	client := &websocket.Client{UserID: userID, Conn: conn}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
