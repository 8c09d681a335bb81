package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/metrics"
	"github.com/DhanaAnjana/DocuMind/internal/telemetry"
	"github.com/DhanaAnjana/DocuMind/internal/vectorindex"
)

// DefaultQueryLimit is the number of chunks retrieved when the caller gives no limit.
const DefaultQueryLimit = 5

// QueryInput is a question over the ingested documents.
type QueryInput struct {
	Query string
	Limit int
}

// QueryService answers questions from the chunks closest to them.
type QueryService struct {
	index        VectorIndex
	chunks       ChunkRepositoryInterface
	synthesizer  *AnswerSynthesizer
	defaultLimit int
	logger       *zap.Logger
}

func NewQueryService(
	index VectorIndex,
	chunks ChunkRepositoryInterface,
	synthesizer *AnswerSynthesizer,
	defaultLimit int,
	logger *zap.Logger,
) *QueryService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultQueryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		index:        index,
		chunks:       chunks,
		synthesizer:  synthesizer,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Query returns a single response with the answer and the sources it was built from.
// Model failures produce an apology answer rather than an error. A missing model
// credential short-circuits before the question is validated.
func (s *QueryService) Query(ctx context.Context, input QueryInput) ([]domain.QueryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "QueryService.Query", telemetry.SpanAttributes{
		Operation: "query",
	})
	defer span.End()

	if !s.synthesizer.Configured() {
		metrics.QueryAnswered(metrics.OutcomeNotConfigured)
		return single(domain.AnswerNotConfigured, nil), nil
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	limit := input.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	span.SetData("limit", limit)

	hits, err := s.index.SimilaritySearch(ctx, input.Query, limit)
	if err != nil {
		span.SetError(err)
		metrics.QueryAnswered(metrics.OutcomeError)
		return nil, domain.ProcessingError("failed to search documents", err)
	}
	span.SetData("hits", len(hits))
	if len(hits) == 0 {
		metrics.QueryAnswered(metrics.OutcomeNothingFound)
		return single(domain.AnswerNothingFound, nil), nil
	}

	keys := make([]*domain.ChunkKey, len(hits))
	var lookup []domain.ChunkKey
	for i, hit := range hits {
		if key, ok := chunkKey(hit); ok {
			keys[i] = &key
			lookup = append(lookup, key)
		}
	}

	var resolved map[domain.ChunkKey]int64
	if len(lookup) > 0 {
		resolved, err = s.chunks.ResolveIDs(ctx, lookup)
		if err != nil {
			span.SetError(err)
			metrics.QueryAnswered(metrics.OutcomeError)
			return nil, domain.ProcessingError("failed to resolve chunks", err)
		}
	}

	contexts := make([]string, len(hits))
	for i, hit := range hits {
		contexts[i] = hit.Content
	}

	synthesis := s.synthesizer.Synthesize(ctx, input.Query, contexts)
	if synthesis.Status == SynthesisFailed {
		metrics.QueryAnswered(metrics.OutcomeFailed)
		return single(synthesis.Answer, nil), nil
	}

	sources := make([]domain.Source, len(hits))
	for i, hit := range hits {
		src := domain.Source{
			Content: hit.Content,
			Score:   1 - hit.Distance,
		}
		if docID, ok := hit.Metadata.DocumentID(); ok {
			src.DocumentID = &docID
		}
		if keys[i] != nil {
			if id, ok := resolved[*keys[i]]; ok {
				src.ChunkID = &id
			}
		}
		sources[i] = src
	}

	s.logger.Debug("query answered",
		zap.Int("hits", len(hits)),
		zap.Int("resolved", len(resolved)))
	metrics.QueryAnswered(metrics.OutcomeAnswered)
	return single(synthesis.Answer, sources), nil
}

// chunkKey forms the lookup pair for a hit; hits missing either half cannot be resolved.
func chunkKey(hit vectorindex.Hit) (domain.ChunkKey, bool) {
	docID, ok := hit.Metadata.DocumentID()
	if !ok {
		return domain.ChunkKey{}, false
	}
	embeddingID := hit.ID
	if embeddingID == "" {
		embeddingID = hit.Metadata[vectorindex.MetadataEmbeddingID]
	}
	if embeddingID == "" {
		return domain.ChunkKey{}, false
	}
	return domain.ChunkKey{DocumentID: docID, EmbeddingID: embeddingID}, true
}

func single(answer string, sources []domain.Source) []domain.QueryResponse {
	if sources == nil {
		sources = []domain.Source{}
	}
	return []domain.QueryResponse{{Answer: answer, Sources: sources}}
}
