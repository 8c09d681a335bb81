package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/metrics"
	"github.com/DhanaAnjana/DocuMind/internal/telemetry"
)

const consistencyPageSize = 500

// ConsistencyReport lists rows of the relational store that the vector index does not back.
type ConsistencyReport struct {
	ChunksChecked int
	// DanglingChunks reference an embedding id missing from the index.
	DanglingChunks []domain.Chunk
	// DocumentsWithoutChunks are documents that never got chunk rows,
	// typically from an unsupported upload or a failed indexing step.
	DocumentsWithoutChunks []int64
}

// Consistent reports whether no dangling chunks were found.
// Documents without chunks are reported but do not count as inconsistency.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.DanglingChunks) == 0
}

// ConsistencyService detects drift between the relational store and the vector index.
// It never repairs anything.
type ConsistencyService struct {
	documents DocumentRepositoryInterface
	chunks    ChunkRepositoryInterface
	index     VectorIndex
	pageSize  int
	logger    *zap.Logger
}

func NewConsistencyService(
	documents DocumentRepositoryInterface,
	chunks ChunkRepositoryInterface,
	index VectorIndex,
	logger *zap.Logger,
) *ConsistencyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsistencyService{
		documents: documents,
		chunks:    chunks,
		index:     index,
		pageSize:  consistencyPageSize,
		logger:    logger,
	}
}

func (s *ConsistencyService) Check(ctx context.Context) (*ConsistencyReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "ConsistencyService.Check", telemetry.SpanAttributes{
		Operation: "consistency_check",
	})
	defer span.End()

	report := &ConsistencyReport{
		DanglingChunks:         []domain.Chunk{},
		DocumentsWithoutChunks: []int64{},
	}

	var after int64
	for {
		page, err := s.chunks.ListAfter(ctx, after, s.pageSize)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to list chunks: %w", err)
		}
		if len(page) == 0 {
			break
		}

		ids := make([]string, len(page))
		for i, c := range page {
			ids[i] = c.EmbeddingID
		}
		found, err := s.index.Exists(ctx, ids)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to look up vectors: %w", err)
		}
		for _, c := range page {
			if !found[c.EmbeddingID] {
				report.DanglingChunks = append(report.DanglingChunks, c)
			}
		}

		report.ChunksChecked += len(page)
		after = page[len(page)-1].ID
		if len(page) < s.pageSize {
			break
		}
	}

	after = 0
	for {
		ids, err := s.documents.ListWithoutChunks(ctx, after, s.pageSize)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to list documents without chunks: %w", err)
		}
		report.DocumentsWithoutChunks = append(report.DocumentsWithoutChunks, ids...)
		if len(ids) < s.pageSize {
			break
		}
		after = ids[len(ids)-1]
	}

	metrics.ConsistencyChecked(len(report.DanglingChunks), len(report.DocumentsWithoutChunks))
	span.SetData("dangling_chunks", len(report.DanglingChunks))

	fields := []zap.Field{
		zap.Int("chunks_checked", report.ChunksChecked),
		zap.Int("dangling_chunks", len(report.DanglingChunks)),
		zap.Int("documents_without_chunks", len(report.DocumentsWithoutChunks)),
	}
	if report.Consistent() {
		s.logger.Info("consistency check passed", fields...)
	} else {
		s.logger.Warn("consistency check found dangling chunks", fields...)
		telemetry.CaptureMessage(ctx, "vector index is missing chunk embeddings")
	}
	return report, nil
}
