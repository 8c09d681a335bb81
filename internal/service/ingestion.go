package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/metrics"
	"github.com/DhanaAnjana/DocuMind/internal/telemetry"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

// IngestInput is one uploaded file.
type IngestInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// IngestionService turns an upload into a stored document, indexed chunks and chunk rows.
type IngestionService struct {
	uploads   UploadStore
	documents DocumentRepositoryInterface
	txRunner  TxRunner
	extractor TextExtractor
	chunker   Chunker
	index     VectorIndex
	logger    *zap.Logger
}

func NewIngestionService(
	uploads UploadStore,
	documents DocumentRepositoryInterface,
	txRunner TxRunner,
	extractor TextExtractor,
	chunker Chunker,
	index VectorIndex,
	logger *zap.Logger,
) *IngestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestionService{
		uploads:   uploads,
		documents: documents,
		txRunner:  txRunner,
		extractor: extractor,
		chunker:   chunker,
		index:     index,
		logger:    logger,
	}
}

// Ingest stores the upload, records the document, then extracts, chunks and indexes its text.
// The document row is committed before extraction and is kept if a later step fails.
// Vectors are committed by the index before chunk rows, which are committed together once.
func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (*domain.Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestionService.Ingest", telemetry.SpanAttributes{
		Filename:    input.Filename,
		ContentType: input.ContentType,
		Operation:   "ingest",
	})
	defer span.End()

	doc, err := s.ingest(ctx, input, span)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, domain.ErrUnsupportedContentType) {
			outcome = metrics.OutcomeUnsupported
		} else {
			span.SetError(err)
		}
		metrics.DocumentIngested(outcome, 0)
		s.logger.Warn("ingestion failed",
			zap.String("filename", input.Filename),
			zap.String("content_type", input.ContentType),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}

	metrics.DocumentIngested(metrics.OutcomeSuccess, len(doc.Chunks))
	s.logger.Info("document ingested",
		zap.Int64("document_id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int("chunks", len(doc.Chunks)))
	return doc, nil
}

func (s *IngestionService) ingest(ctx context.Context, input IngestInput, span *telemetry.Span) (*domain.Document, error) {
	filename := filepath.Base(input.Filename)

	path, err := s.uploads.Save(ctx, filename, input.ContentType, input.Body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFilename) {
			return nil, err
		}
		return nil, domain.ProcessingError("failed to save upload", err)
	}

	doc := domain.NewDocument(filename, input.ContentType, path)
	if err := domain.ValidateDocument(doc); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid document", err)
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, domain.ProcessingError("failed to create document", err)
	}
	span.SetData("document_id", doc.ID)
	telemetry.AddBreadcrumb(ctx, "ingest", "document row created")

	text, err := s.extractor.Extract(path, input.ContentType)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedContentType) {
			return nil, err
		}
		return nil, domain.ProcessingError("failed to extract text", err)
	}

	texts := slices.Collect(s.chunker.Split(text))
	span.SetData("chunks", len(texts))

	var embeddingIDs []string
	if len(texts) > 0 {
		metadatas := make([]vectorindex.Metadata, len(texts))
		for i := range metadatas {
			metadatas[i] = vectorindex.DocumentMetadata(doc.ID)
		}
		embeddingIDs, err = s.index.AddTexts(ctx, texts, metadatas)
		if err != nil {
			return nil, domain.ProcessingError("failed to index chunks", err)
		}
	}
	telemetry.AddBreadcrumb(ctx, "ingest", "chunks indexed")

	chunks, err := domain.NewChunks(doc.ID, texts, embeddingIDs)
	if err != nil {
		return nil, domain.ProcessingError("failed to index chunks", err)
	}

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		for i := range chunks {
			if err := repos.Chunks().Create(ctx, &chunks[i]); err != nil {
				return err
			}
		}
		updatedAt, err := repos.Documents().Touch(ctx, doc.ID)
		if err != nil {
			return err
		}
		doc.UpdatedAt = updatedAt
		return nil
	})
	if err != nil {
		return nil, domain.ProcessingError("failed to store chunks", err)
	}

	doc.Chunks = chunks
	return doc, nil
}
