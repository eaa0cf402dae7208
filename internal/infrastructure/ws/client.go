package ws

import (
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn     *connWrapper
	Message  chan *WSMessage
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func NewClient(conn *websocket.Conn, id, roomID, username string) *Client {
	return &Client{
		conn:     newConnWrapper(conn),
		Message:  make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:       id,
		RoomID:   roomID,
		Username: username,
	}
}

// ReadMessage pumps inbound frames into the core. Every frame is a text
// message body; empty ones are relayed as-is, suppression is the
// client's job. The connection's disconnect, however it happens, ends
// in exactly one unregister.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}

		core.Broadcast() <- NewTextMessage(c.RoomID, c.Username, string(raw))
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}
