package ws

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// RoomManager owns the live connections of each room and fans messages
// out to them. Membership bookkeeping lives in the registry; this is
// purely the transport-side view.
type RoomManager struct {
	rooms    map[string]map[string]*Client // roomID -> connID -> client
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *zap.SugaredLogger
}

func NewRoomManager(allowedOrigins []string, logger *zap.SugaredLogger) *RoomManager {
	rm := &RoomManager{
		rooms:  make(map[string]map[string]*Client),
		logger: logger,
	}

	rm.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}

	return rm
}

func (rm *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return rm.upgrader.Upgrade(w, r, nil)
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[cl.RoomID]
	if !ok {
		room = make(map[string]*Client)
		rm.rooms[cl.RoomID] = room
	}

	if _, exists := room[cl.ID]; !exists {
		room[cl.ID] = cl
	}
}

func (rm *RoomManager) RemoveClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, ok := rm.rooms[cl.RoomID]; ok {
		if _, ok := room[cl.ID]; ok {
			delete(room, cl.ID)
			close(cl.Message)

			if len(room) == 0 {
				delete(rm.rooms, cl.RoomID)
			}
		}
	}
}

// Broadcast delivers a message to every connection in the room.
// Unknown or empty rooms are a no-op, not an error.
func (rm *RoomManager) Broadcast(roomID string, msg *WSMessage) {
	rm.broadcast(roomID, "", msg)
}

// BroadcastExcept delivers to every connection in the room but one.
func (rm *RoomManager) BroadcastExcept(roomID, exceptID string, msg *WSMessage) {
	rm.broadcast(roomID, exceptID, msg)
}

func (rm *RoomManager) broadcast(roomID, exceptID string, msg *WSMessage) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, cl := range rm.rooms[roomID] {
		if cl.ID == exceptID {
			continue
		}

		select {
		case cl.Message <- msg:
		default:
			// Client is too slow – drop the message
			rm.logger.Warnw("client buffer full, dropping message", "client", cl.ID, "room", roomID)
		}
	}
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	for _, a := range allowed {
		if a == "*" || a == origin || a == parsed.Scheme+"://"+parsed.Host {
			return true
		}
	}

	return false
}
