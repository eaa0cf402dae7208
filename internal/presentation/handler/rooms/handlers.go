package rooms

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/json"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/ws"
)

type Handler struct {
	core    *ws.Core
	roomMgr *ws.RoomManager
}

func NewHandler(core *ws.Core, roomMgr *ws.RoomManager) *Handler {
	return &Handler{
		core:    core,
		roomMgr: roomMgr,
	}
}

// JoinRoomHandler upgrades the request to a websocket and binds the
// connection to the requested room. The room needs no prior creation;
// it exists as soon as someone is in it.
func (h *Handler) JoinRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		json.WriteValidationError(w, errors.New("username query parameter is required"))
		return
	}

	conn, err := h.roomMgr.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for room %s: %v", roomID, err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), roomID, username)

	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)
}
