package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/chunking"
	"github.com/DhanaAnjana/DocuMind/internal/config"
	"github.com/DhanaAnjana/DocuMind/internal/database"
	"github.com/DhanaAnjana/DocuMind/internal/extract"
	"github.com/DhanaAnjana/DocuMind/internal/logger"
	"github.com/DhanaAnjana/DocuMind/internal/openai"
	"github.com/DhanaAnjana/DocuMind/internal/repository"
	"github.com/DhanaAnjana/DocuMind/internal/service"
	"github.com/DhanaAnjana/DocuMind/internal/storage"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex/local"
	vpostgres "github.com/DhanaAnjana/DocuMind/internal/vectorindex/postgres"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex/valkey"
)

// app holds every component shared by the server and the maintenance commands.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *pgxpool.Pool

	index       *vectorindex.Index
	ingestion   *service.IngestionService
	documents   *service.DocumentService
	query       *service.QueryService
	consistency *service.ConsistencyService
}

type appOptions struct {
	migrate       bool
	migrationsDir string
}

// loadConfig reads and validates configuration and builds the logger for it.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, opts appOptions) (a *app, err error) {
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err != nil {
			pool.Close()
		}
	}()
	log.Info("connected to database")

	if opts.migrate {
		if err := runMigrations(cfg.DatabaseURL, opts.migrationsDir, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	embedder, err := openai.NewClient(openai.Config{
		APIKey:              cfg.EmbeddingAPIKey,
		BaseURL:             cfg.EmbeddingBaseURL,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	store, err := openVectorStore(ctx, cfg, pool)
	if err != nil {
		return nil, err
	}
	index := vectorindex.New(embedder, store)
	defer func() {
		if err != nil {
			_ = index.Close()
		}
	}()
	log.Info("vector index ready", zap.String("backend", cfg.VectorBackend))

	uploads := storage.NewLocalStore(cfg.UploadsDir)
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		uploads = uploads.WithMirror(s3Client)
		log.Info("S3 upload mirror ready", zap.String("bucket", cfg.S3Bucket))
	}

	chunker, err := chunking.NewTokenSplitter(cfg.ChunkSize, cfg.ChunkOverlap, cfg.TokenEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}

	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	return &app{
		cfg:   cfg,
		log:   log,
		pool:  pool,
		index: index,
		ingestion: service.NewIngestionService(
			uploads, documentRepo, txRunner, extract.NewExtractor(), chunker, index, log,
		),
		documents: service.NewDocumentService(documentRepo, chunkRepo, cfg.DefaultListLimit),
		query: service.NewQueryService(
			index, chunkRepo, service.NewAnswerSynthesizer(generator, log), cfg.DefaultQueryLimit, log,
		),
		consistency: service.NewConsistencyService(documentRepo, chunkRepo, index, log),
	}, nil
}

// newGenerator returns nil when no model credential is configured.
func newGenerator(cfg *config.Config) (service.Generator, error) {
	if !cfg.HasGenerativeModel() {
		return nil, nil
	}
	gen, err := openai.NewGenerator(openai.GeneratorConfig{
		APIKey:      cfg.GoogleAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.GenerativeModel,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}

func openVectorStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (vectorindex.Store, error) {
	switch cfg.VectorBackend {
	case config.VectorBackendLocal:
		store, err := local.NewStore(cfg.VectorIndexDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open local vector index: %w", err)
		}
		return store, nil
	case config.VectorBackendPgvector:
		store := vpostgres.NewStore(pool)
		if err := store.EnsureSchema(ctx, cfg.EmbeddingDimensions); err != nil {
			return nil, fmt.Errorf("failed to prepare pgvector index: %w", err)
		}
		return store, nil
	case config.VectorBackendValkey:
		store, err := valkey.NewStore(valkey.Config{
			Addrs:    cfg.ValkeyAddrs,
			Password: cfg.ValkeyPassword,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to valkey: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to reach valkey: %w", err)
		}
		if err := store.EnsureIndex(ctx, cfg.EmbeddingDimensions); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to prepare valkey index: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}

func (a *app) Close() {
	if err := a.index.Close(); err != nil {
		a.log.Warn("failed to close vector index", zap.Error(err))
	}
	a.pool.Close()
	_ = a.log.Sync()
}

// openApp loads configuration and builds the app for a maintenance command.
func openApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, log, appOptions{})
}
