// Package chunking splits extracted text into overlapping chunks sized in tokens.
package chunking

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// DefaultSeparators are tried in order: paragraphs, lines, sentences, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// LengthFunc measures the size of a piece of text.
type LengthFunc func(string) int

// Splitter recursively splits text on the coarsest separator that keeps pieces
// under the chunk size and greedily merges neighbouring pieces back together.
// Separators stay attached to the start of the piece that follows them.
type Splitter struct {
	size       int
	overlap    int
	separators []string
	length     LengthFunc
}

func NewSplitter(size, overlap int, length LengthFunc) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	if length == nil {
		return nil, fmt.Errorf("length function is required")
	}
	return &Splitter{
		size:       size,
		overlap:    overlap,
		separators: DefaultSeparators,
		length:     length,
	}, nil
}

// NewTokenSplitter creates a Splitter measuring chunks with the named tiktoken encoding.
func NewTokenSplitter(size, overlap int, encoding string) (*Splitter, error) {
	length, err := TokenCounter(encoding)
	if err != nil {
		return nil, err
	}
	return NewSplitter(size, overlap, length)
}

// Split returns the chunks of text in order. The sequence is computed on demand
// and can be ranged over more than once.
func (s *Splitter) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.split(text, s.separators, yield)
	}
}

// SplitAll collects Split into a slice.
func (s *Splitter) SplitAll(text string) []string {
	return slices.Collect(s.Split(text))
}

// split yields the chunks of text and reports whether iteration should continue.
func (s *Splitter) split(text string, separators []string, yield func(string) bool) bool {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if s.length(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			if !s.merge(good, yield) {
				return false
			}
			good = nil
		}
		if len(rest) == 0 {
			if !yield(piece) {
				return false
			}
			continue
		}
		if !s.split(piece, rest, yield) {
			return false
		}
	}
	if len(good) > 0 {
		return s.merge(good, yield)
	}
	return true
}

// merge combines consecutive pieces into chunks no larger than the size,
// carrying up to overlap worth of trailing pieces into the next chunk.
func (s *Splitter) merge(pieces []string, yield func(string) bool) bool {
	var (
		current []string
		total   int
	)
	for _, piece := range pieces {
		n := s.length(piece)
		if total+n > s.size && len(current) > 0 {
			if chunk, ok := joinPieces(current); ok {
				if !yield(chunk) {
					return false
				}
			}
			for total > s.overlap || (total+n > s.size && total > 0) {
				total -= s.length(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk, ok := joinPieces(current); ok {
		return yield(chunk)
	}
	return true
}

func joinPieces(pieces []string) (string, bool) {
	chunk := strings.TrimSpace(strings.Join(pieces, ""))
	return chunk, chunk != ""
}

// splitKeepingSeparator splits text on separator and prefixes every piece but the
// first with the separator. An empty separator splits into characters.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = separator + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}
