// websocket/hub.go
package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"assetdesk/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub groups connected clients by environment; a client only receives
// updates for the namespace it subscribed to.
type Hub struct {
	mutex   sync.Mutex
	clients map[string]map[*Client]bool
}

var hub = &Hub{clients: map[string]map[*Client]bool{}}

// ServeWS upgrades the connection and registers the client under the env
// from the query string.
func ServeWS(w http.ResponseWriter, r *http.Request) {
	env := store.ParseEnvironment(r.URL.Query().Get("env"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 64)}

	hub.mutex.Lock()
	if hub.clients[string(env)] == nil {
		hub.clients[string(env)] = map[*Client]bool{}
	}
	hub.clients[string(env)][client] = true
	hub.mutex.Unlock()

	go client.writePump()
	go client.readPump(string(env))
}

func (c *Client) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump only exists to detect a closed connection.
func (c *Client) readPump(envKey string) {
	defer func() {
		hub.mutex.Lock()
		if clients, ok := hub.clients[envKey]; ok {
			if clients[c] {
				delete(clients, c)
				close(c.send)
			}
		}
		hub.mutex.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcast pushes a payload to every client in an environment room.
func broadcast(envKey string, data []byte) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for client := range hub.clients[envKey] {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(hub.clients[envKey], client)
		}
	}
}
