package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/chat"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/llm"
)

// ChatHandler handles the question/answer endpoints of a room.
type ChatHandler struct {
	rooms   *chat.RoomService
	history *chat.HistoryService
	answers *chat.AnswerService
	logger  *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(rooms *chat.RoomService, history *chat.HistoryService, answers *chat.AnswerService, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{rooms: rooms, history: history, answers: answers, logger: logger}
}

// AskRequest is the body for POST /api/chats/{room_id}.
type AskRequest struct {
	Question string `json:"question"`
}

// History handles GET /api/chats/{room_id}.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	roomID, ok := idParam(r, "room_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}
	if _, err := h.rooms.Get(r.Context(), roomID); err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch room")
		return
	}

	entries, err := h.history.ListByRoom(r.Context(), roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	if entries == nil {
		entries = []*chat.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Ask handles POST /api/chats/{room_id}: generate an answer for the
// question and append the finished turn to the room's history. A failed
// upstream call persists nothing.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	roomID, ok := idParam(r, "room_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.rooms.Get(r.Context(), roomID)
	if errors.Is(err, chat.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch room")
		return
	}

	answer, err := h.answers.GenerateAnswer(r.Context(), room, req.Question)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			writeError(w, http.StatusBadGateway, "upstream_failure")
			return
		}
		h.logger.Error("answer generation failed", "room", roomID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to generate answer")
		return
	}

	entry, err := h.history.Append(r.Context(), roomID, req.Question, answer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record chat")
		return
	}
	if err := h.rooms.Touch(r.Context(), roomID); err != nil {
		h.logger.Warn("failed to touch room", "room", roomID, "err", err)
	}
	writeJSON(w, http.StatusOK, entry)
}
