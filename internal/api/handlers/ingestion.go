package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/ingest"
)

// IngestionHandler exposes background ingestion jobs.
type IngestionHandler struct {
	ingestSvc *ingest.Service
}

// NewIngestionHandler creates an IngestionHandler.
func NewIngestionHandler(ingestSvc *ingest.Service) *IngestionHandler {
	return &IngestionHandler{ingestSvc: ingestSvc}
}

// Get handles GET /api/ingestions/{id}.
func (h *IngestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ingestSvc.Job(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "ingestion not found")
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// Cancel handles DELETE /api/ingestions/{id}. Cancelling a finished job
// changes nothing.
func (h *IngestionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ingestSvc.Job(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "ingestion not found")
		return
	}
	job.Cancel()
	writeJSON(w, http.StatusAccepted, job.Snapshot())
}
