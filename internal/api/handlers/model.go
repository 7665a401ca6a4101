package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/chat"
)

// ModelHandler handles the model catalog endpoints.
type ModelHandler struct {
	models *chat.ModelService
}

// NewModelHandler creates a ModelHandler.
func NewModelHandler(models *chat.ModelService) *ModelHandler {
	return &ModelHandler{models: models}
}

// CreateModelRequest is the body for POST /api/models.
type CreateModelRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	URL   string `json:"url,omitempty"`
}

// Create handles POST /api/models.
func (h *ModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Model == "" {
		writeError(w, http.StatusBadRequest, "name and model are required")
		return
	}

	m, err := h.models.Create(r.Context(), chat.CreateModelInput{
		Name: req.Name, Model: req.Model, URL: req.URL,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create model")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// List handles GET /api/models.
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list models")
		return
	}
	if models == nil {
		models = []*chat.Model{}
	}
	writeJSON(w, http.StatusOK, models)
}

// Get handles GET /api/models/{id}.
func (h *ModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid model id")
		return
	}
	m, err := h.models.Get(r.Context(), id)
	if errors.Is(err, chat.ErrModelNotFound) {
		writeError(w, http.StatusNotFound, "model not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch model")
		return
	}
	writeJSON(w, http.StatusOK, m)
}
