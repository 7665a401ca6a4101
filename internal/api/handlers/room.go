package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/api/ctxkeys"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/chat"
)

// RoomHandler handles conversation rooms.
type RoomHandler struct {
	rooms *chat.RoomService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(rooms *chat.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// CreateRoomRequest is the body for POST /api/rooms.
type CreateRoomRequest struct {
	BotID int64 `json:"bot_id"`
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxkeys.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BotID == 0 {
		writeError(w, http.StatusBadRequest, "bot_id is required")
		return
	}

	room, err := h.rooms.Create(r.Context(), userID, req.BotID)
	if err != nil {
		if errors.Is(err, chat.ErrBotNotFound) {
			writeError(w, http.StatusBadRequest, "unknown bot")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// List handles GET /api/rooms, scoped to the authenticated user.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxkeys.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	rooms, err := h.rooms.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []*chat.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}
