package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/vector"
)

const defaultSearchTopK = 5

// SearchHandler answers semantic-search queries against a bot's ingested
// documents.
type SearchHandler struct {
	index vector.Index
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(index vector.Index) *SearchHandler {
	return &SearchHandler{index: index}
}

// SearchRequest is the body for POST /api/bots/{id}/search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"`
}

// SearchResponse holds the ranked hits for a query.
type SearchResponse struct {
	Hits []vector.Hit `json:"hits"`
}

// Search handles POST /api/bots/{id}/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	botID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bot id")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = defaultSearchTopK
	}

	hits, err := h.index.Query(r.Context(), botID, req.Query, topK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if hits == nil {
		hits = []vector.Hit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Hits: hits})
}
