package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/DhanaAnjana/DocuMind/internal/api"
	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/service"
)

type QueryService interface {
	Query(ctx context.Context, input service.QueryInput) ([]domain.QueryResponse, error)
}

type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SourceResponse struct {
	Content    string  `json:"content"`
	DocumentID *int64  `json:"document_id"`
	ChunkID    *int64  `json:"chunk_id"`
	Score      float64 `json:"score"`
}

type QueryResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceResponse `json:"sources"`
}

func queryToResponse(responses []domain.QueryResponse) []QueryResponse {
	out := make([]QueryResponse, len(responses))
	for i, resp := range responses {
		sources := make([]SourceResponse, len(resp.Sources))
		for j, s := range resp.Sources {
			sources[j] = SourceResponse{
				Content:    s.Content,
				DocumentID: s.DocumentID,
				ChunkID:    s.ChunkID,
				Score:      s.Score,
			}
		}
		out[i] = QueryResponse{Answer: resp.Answer, Sources: sources}
	}
	return out
}

// Query answers a question; a missing limit retrieves the default number of chunks.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit < 0 {
		api.Error(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	responses, err := h.svc.Query(r.Context(), service.QueryInput{
		Query: req.Query,
		Limit: req.Limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, queryToResponse(responses))
}
