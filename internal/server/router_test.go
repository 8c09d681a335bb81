package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DhanaAnjana/DocuMind/internal/api/handlers"
	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/service"
)

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Ingest(ctx context.Context, input service.IngestInput) (*domain.Document, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, skip, limit int) ([]*domain.Document, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Query(ctx context.Context, input service.QueryInput) ([]domain.QueryResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueryResponse), args.Error(1)
}

type routerFixture struct {
	ingestion *MockIngestionService
	documents *MockDocumentService
	query     *MockQueryService
	handler   http.Handler
}

func newRouterFixture(maxBody int64) *routerFixture {
	f := &routerFixture{
		ingestion: new(MockIngestionService),
		documents: new(MockDocumentService),
		query:     new(MockQueryService),
	}
	f.handler = NewRouter(RouterConfig{
		MaxBodyBytes:    maxBody,
		DocumentHandler: handlers.NewDocumentHandler(f.ingestion, f.documents, 10),
		QueryHandler:    handlers.NewQueryHandler(f.query),
	})
	return f
}

func TestRouter_HealthEndpoint(t *testing.T) {
	f := newRouterFixture(0)

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["data"]["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	f := newRouterFixture(0)

	f.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "documind_http_requests_total")
}

func TestRouter_DocumentRoutes(t *testing.T) {
	f := newRouterFixture(0)
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := &domain.Document{ID: 4, Filename: "a.txt", ContentType: "text/plain", CreatedAt: ts, UpdatedAt: ts}
	f.documents.On("List", mock.Anything, 0, 10).Return([]*domain.Document{doc}, nil)
	f.documents.On("Get", mock.Anything, int64(4)).Return(doc, nil)

	for _, path := range []string{"/documents/", "/documents", "/documents/4"} {
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_QueryRoute(t *testing.T) {
	f := newRouterFixture(0)
	f.query.On("Query", mock.Anything, service.QueryInput{Query: "hi"}).Return([]domain.QueryResponse{{
		Answer:  domain.AnswerNothingFound,
		Sources: []domain.Source{},
	}}, nil)

	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/query/", bytes.NewBufferString(`{"query":"hi"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	f.query.AssertExpectations(t)
}

func TestRouter_CORS(t *testing.T) {
	f := newRouterFixture(0)

	req := httptest.NewRequest(http.MethodOptions, "/query/", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UploadTooLarge(t *testing.T) {
	f := newRouterFixture(16)

	body := bytes.Repeat([]byte("x"), 1024)
	req := httptest.NewRequest(http.MethodPost, "/documents/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.GreaterOrEqual(t, w.Code, http.StatusBadRequest)
	f.ingestion.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}
