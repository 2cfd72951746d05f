package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"nigraan/internal/models"
	"nigraan/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Demo backend, origin filtering happens in the CORS layer
		return true
	},
}

// clientCommand is the inbound message frame from realtime clients.
type clientCommand struct {
	Type      string            `json:"type"`
	Channel   string            `json:"channel,omitempty"`
	Token     string            `json:"token,omitempty"`
	Principal *models.Principal `json:"principal,omitempty"`
}

// WebSocketController upgrades dashboard connections and bridges them to
// the hub.
type WebSocketController struct {
	hub  *services.Hub
	auth *services.AuthService
}

func NewWebSocketController(hub *services.Hub, auth *services.AuthService) *WebSocketController {
	return &WebSocketController{hub: hub, auth: auth}
}

// HandleWebSocket handles incoming realtime connections
func (ctl *WebSocketController) HandleWebSocket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade error: %v", err)
		return
	}

	client := &services.ClientConn{
		ID:   c.ClientIP() + "-" + randomID(),
		Send: make(chan services.Envelope, 256),
	}
	ctl.hub.Register(client)

	go ctl.readPump(ws, client)
	go writePump(ws, client)
}

// readPump consumes client commands until the transport closes.
func (ctl *WebSocketController) readPump(ws *websocket.Conn, client *services.ClientConn) {
	defer func() {
		ctl.hub.Unregister(client.ID)
		ws.Close()
	}()

	for {
		var cmd clientCommand
		if err := ws.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			return
		}

		switch cmd.Type {
		case "subscribe":
			if cmd.Channel != "" {
				ctl.hub.Subscribe(client.ID, cmd.Channel)
			}

		case "unsubscribe":
			if cmd.Channel != "" {
				ctl.hub.Unsubscribe(client.ID, cmd.Channel)
			}

		case "authenticate":
			ctl.hub.Authenticate(client.ID, ctl.resolvePrincipal(cmd))

		case "ping":
			select {
			case client.Send <- services.Envelope{Type: "pong", Timestamp: time.Now()}:
			default:
			}

		default:
			log.Printf("[WS] unknown message type from %s: %s", client.ID, cmd.Type)
		}
	}
}

// resolvePrincipal prefers a valid token's identity over the raw principal
// object; credential checks stay with the external user store, so whatever
// survives here is attached as a label.
func (ctl *WebSocketController) resolvePrincipal(cmd clientCommand) models.Principal {
	if cmd.Token != "" {
		p, err := ctl.auth.ValidateToken(cmd.Token)
		if err == nil {
			return p
		}
		log.Printf("[WS] authenticate token rejected: %v", err)
	}
	if cmd.Principal != nil {
		return *cmd.Principal
	}
	return models.Principal{}
}

// writePump drains the client's send buffer onto the wire.
func writePump(ws *websocket.Conn, client *services.ClientConn) {
	defer ws.Close()

	for env := range client.Send {
		if err := ws.WriteJSON(env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] write error: %v", err)
			}
			return
		}
	}
	// Hub closed the channel on unregister
	ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// HandleGetToken mints a demo realtime token for a named principal
// Query params: name (default: dashboard), email
func (ctl *WebSocketController) HandleGetToken(c *gin.Context) {
	p := models.Principal{
		ID:    randomID(),
		Name:  c.DefaultQuery("name", "dashboard"),
		Email: c.Query("email"),
	}

	token, err := ctl.auth.GenerateToken(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": ctl.auth.TokenExpiry(),
		"name":   p.Name,
	})
}

func randomID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "conn"
	}
	return hex.EncodeToString(buf)
}
