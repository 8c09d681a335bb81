package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DhanaAnjana/DocuMind/internal/api"
	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/pagination"
	"github.com/DhanaAnjana/DocuMind/internal/service"
)

const (
	uploadFormField    = "file"
	defaultContentType = "application/octet-stream"
	maxListLimit       = 1000
)

type IngestionService interface {
	Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error)
}

type DocumentService interface {
	List(ctx context.Context, skip, limit int) ([]*domain.Document, error)
	Get(ctx context.Context, id int64) (*domain.Document, error)
}

type DocumentHandler struct {
	ingestion        IngestionService
	documents        DocumentService
	defaultListLimit int
}

func NewDocumentHandler(ingestion IngestionService, documents DocumentService, defaultListLimit int) *DocumentHandler {
	if defaultListLimit <= 0 {
		defaultListLimit = service.DefaultListLimit
	}
	return &DocumentHandler{
		ingestion:        ingestion,
		documents:        documents,
		defaultListLimit: defaultListLimit,
	}
}

type ChunkResponse struct {
	ID          int64  `json:"id"`
	DocumentID  int64  `json:"document_id"`
	Content     string `json:"content"`
	ChunkIndex  int    `json:"chunk_index"`
	EmbeddingID string `json:"embedding_id"`
	CreatedAt   string `json:"created_at"`
}

type DocumentResponse struct {
	ID          int64           `json:"id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"content_type"`
	FilePath    string          `json:"file_path"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	Chunks      []ChunkResponse `json:"chunks"`
}

func documentToResponse(d *domain.Document) *DocumentResponse {
	chunks := make([]ChunkResponse, len(d.Chunks))
	for i, c := range d.Chunks {
		chunks[i] = ChunkResponse{
			ID:          c.ID,
			DocumentID:  c.DocumentID,
			Content:     c.Content,
			ChunkIndex:  c.ChunkIndex,
			EmbeddingID: c.EmbeddingID,
			CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return &DocumentResponse{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		FilePath:    d.FilePath,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   d.UpdatedAt.UTC().Format(time.RFC3339),
		Chunks:      chunks,
	}
}

// Upload ingests the multipart "file" field. The content type is the one the client declared for the part.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	doc, err := h.ingestion.Ingest(r.Context(), service.IngestInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParseOffset(r.URL.Query(), h.defaultListLimit, maxListLimit)
	if err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, err := h.documents.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = documentToResponse(d)
	}
	api.Success(w, http.StatusOK, resp)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Error(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, documentToResponse(doc))
}
