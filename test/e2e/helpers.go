//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DhanaAnjana/DocuMind/internal/api/handlers"
	"github.com/DhanaAnjana/DocuMind/internal/chunking"
	"github.com/DhanaAnjana/DocuMind/internal/extract"
	"github.com/DhanaAnjana/DocuMind/internal/repository"
	"github.com/DhanaAnjana/DocuMind/internal/server"
	"github.com/DhanaAnjana/DocuMind/internal/service"
	"github.com/DhanaAnjana/DocuMind/internal/storage"
	"github.com/DhanaAnjana/DocuMind/internal/testutil"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
	vpostgres "github.com/DhanaAnjana/DocuMind/internal/vectorindex/postgres"
)

const embeddingDims = 64

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T           *testing.T
	Ctx         context.Context
	PostgresC   *testutil.PostgresContainer
	RustFSC     *testutil.RustFSContainer
	Pool        *pgxpool.Pool
	S3Client    *storage.S3Client
	Server      *httptest.Server
	Consistency *service.ConsistencyService
	HTTPClient  *http.Client
}

// SetupE2EEnv starts Postgres and RustFS and serves the full API over them.
// Embeddings come from a deterministic hash embedder and answers from a canned generator.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "test-uploads",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	store := vpostgres.NewStore(pool)
	if err := store.EnsureSchema(ctx, embeddingDims); err != nil {
		t.Fatalf("failed to prepare vector store: %v", err)
	}
	index := vectorindex.New(testutil.NewHashEmbedder(embeddingDims), store)

	chunker, err := chunking.NewTokenSplitter(1000, 200, "cl100k_base")
	if err != nil {
		t.Fatalf("failed to create chunker: %v", err)
	}

	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	uploads := storage.NewLocalStore(t.TempDir()).WithMirror(s3Client)

	ingestion := service.NewIngestionService(
		uploads, documentRepo, repository.NewTxRunner(pool), extract.NewExtractor(), chunker, index, nil,
	)
	documents := service.NewDocumentService(documentRepo, chunkRepo, service.DefaultListLimit)
	query := service.NewQueryService(
		index, chunkRepo, service.NewAnswerSynthesizer(cannedGenerator{}, nil), service.DefaultQueryLimit, nil,
	)

	router := server.NewRouter(server.RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(ingestion, documents, service.DefaultListLimit),
		QueryHandler:    handlers.NewQueryHandler(query),
	})

	return &E2ETestEnv{
		T:           t,
		Ctx:         ctx,
		PostgresC:   pgC,
		RustFSC:     s3C,
		Pool:        pool,
		S3Client:    s3Client,
		Server:      httptest.NewServer(router),
		Consistency: service.NewConsistencyService(documentRepo, chunkRepo, index, nil),
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Reset empties the database and the vector index.
func (e *E2ETestEnv) Reset() {
	if err := testutil.TruncateAll(e.Ctx, e.Pool); err != nil {
		e.T.Fatalf("failed to truncate: %v", err)
	}
}

// cannedGenerator answers from the prompt it is given, so retrieved context shows up in the answer.
type cannedGenerator struct{}

func (cannedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Paris") {
		return "The capital of France is Paris.", nil
	}
	return "I don't know.", nil
}

// APIResponse represents a standard API response
type APIResponse struct {
	Status int             `json:"-"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	req, err := http.NewRequest(http.MethodGet, e.Server.URL+path, nil)
	if err != nil {
		return nil, err
	}
	return e.do(req)
}

// Post performs a JSON POST request
func (e *E2ETestEnv) Post(path string, body any) (*APIResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, e.Server.URL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

// Upload posts content as the multipart "file" field with the given part content type.
func (e *E2ETestEnv) Upload(filename, contentType string, content []byte) (*APIResponse, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.Server.URL+"/documents/", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

// do returns the decoded envelope for every status; transport and decode failures are errors.
func (e *E2ETestEnv) do(req *http.Request) (*APIResponse, error) {
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	apiResp := APIResponse{Status: resp.StatusCode}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return &apiResp, nil
}
