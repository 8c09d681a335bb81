package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
	"github.com/DhanaAnjana/DocuMind/internal/telemetry"
)

const promptInstructions = "You are a helpful assistant. Use the following context to answer the question. " +
	"If you cannot answer from the context, say “I don’t know.”"

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SynthesisStatus tells callers how an answer was produced.
type SynthesisStatus int

const (
	SynthesisAnswered SynthesisStatus = iota
	SynthesisNotConfigured
	SynthesisFailed
)

func (s SynthesisStatus) String() string {
	switch s {
	case SynthesisAnswered:
		return "answered"
	case SynthesisNotConfigured:
		return "not_configured"
	case SynthesisFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Synthesis is the outcome of answering a question. Answer always holds the
// text to show the user; Err is set when Status is SynthesisFailed.
type Synthesis struct {
	Status SynthesisStatus
	Answer string
	Err    error
}

// AnswerSynthesizer asks the generative model to answer a question from retrieved context.
type AnswerSynthesizer struct {
	generator Generator
	logger    *zap.Logger
}

// NewAnswerSynthesizer creates a synthesizer. A nil generator means no model credential
// is configured and every synthesis reports SynthesisNotConfigured.
func NewAnswerSynthesizer(generator Generator, logger *zap.Logger) *AnswerSynthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerSynthesizer{generator: generator, logger: logger}
}

func (s *AnswerSynthesizer) Configured() bool {
	return s.generator != nil
}

// Synthesize never fails: model errors are reported through the returned status.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, query string, contexts []string) Synthesis {
	if !s.Configured() {
		return Synthesis{Status: SynthesisNotConfigured, Answer: domain.AnswerNotConfigured}
	}

	ctx, span := telemetry.StartSpan(ctx, "AnswerSynthesizer.Synthesize", telemetry.SpanAttributes{
		Operation: "synthesize",
	})
	defer span.End()
	span.SetData("context_chunks", len(contexts))

	answer, err := s.generator.Generate(ctx, BuildPrompt(query, contexts))
	if err != nil {
		span.SetError(err)
		s.logger.Warn("generative model call failed", zap.Error(err))
		return Synthesis{
			Status: SynthesisFailed,
			Answer: domain.AnswerFailedPrefix + err.Error(),
			Err:    err,
		}
	}

	return Synthesis{Status: SynthesisAnswered, Answer: answer}
}

// BuildPrompt joins the context chunks with blank lines and frames them with the instructions and the question.
func BuildPrompt(query string, contexts []string) string {
	return promptInstructions + "\n\nContext:\n" + strings.Join(contexts, "\n\n") + "\n\nQuestion: " + query
}
