package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/chat"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/ingest"
)

// BotHandler handles bot management. Creating a bot with attached files
// also starts a background ingestion into the bot's vector collection.
type BotHandler struct {
	bots      *chat.BotService
	models    *chat.ModelService
	ingestSvc *ingest.Service
}

// NewBotHandler creates a BotHandler.
func NewBotHandler(bots *chat.BotService, models *chat.ModelService, ingestSvc *ingest.Service) *BotHandler {
	return &BotHandler{bots: bots, models: models, ingestSvc: ingestSvc}
}

// FileRef identifies a source document to ingest.
type FileRef struct {
	ID string `json:"id"`
}

// CreateBotRequest is the body for POST /api/bots.
type CreateBotRequest struct {
	Model    int64     `json:"model"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon,omitempty"`
	Behavior string    `json:"behavior,omitempty"`
	Greeting string    `json:"greeting,omitempty"`
	Files    []FileRef `json:"files,omitempty"`
}

// CreateBotResponse is the created bot plus the ingestion job started for
// its files, when any were attached.
type CreateBotResponse struct {
	*chat.Bot
	IngestionID string `json:"ingestionId,omitempty"`
}

// Create handles POST /api/bots.
func (h *BotHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if _, err := h.models.Get(r.Context(), req.Model); err != nil {
		if errors.Is(err, chat.ErrModelNotFound) {
			writeError(w, http.StatusBadRequest, "unknown base model")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve base model")
		return
	}

	bot, err := h.bots.Create(r.Context(), chat.CreateBotInput{
		ModelID:  req.Model,
		Name:     req.Name,
		Icon:     req.Icon,
		Behavior: req.Behavior,
		Greeting: req.Greeting,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create bot")
		return
	}

	resp := CreateBotResponse{Bot: bot}
	if len(req.Files) > 0 {
		fileIDs := make([]string, 0, len(req.Files))
		for _, f := range req.Files {
			if f.ID != "" {
				fileIDs = append(fileIDs, f.ID)
			}
		}
		job := h.ingestSvc.Start(bot.ID, fileIDs)
		resp.IngestionID = job.ID
	}
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/bots.
func (h *BotHandler) List(w http.ResponseWriter, r *http.Request) {
	bots, err := h.bots.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bots")
		return
	}
	if bots == nil {
		bots = []*chat.Bot{}
	}
	writeJSON(w, http.StatusOK, bots)
}

// Get handles GET /api/bots/{id}.
func (h *BotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bot id")
		return
	}
	bot, err := h.bots.Get(r.Context(), id)
	if errors.Is(err, chat.ErrBotNotFound) {
		writeError(w, http.StatusNotFound, "bot not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch bot")
		return
	}
	writeJSON(w, http.StatusOK, bot)
}
