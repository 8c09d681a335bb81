package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("notes.txt", "text/plain", "data/uploads/notes.txt")

	assert.Zero(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Equal(t, "data/uploads/notes.txt", doc.FilePath)
	assert.Empty(t, doc.Chunks)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr string
	}{
		{name: "valid", doc: NewDocument("a.pdf", "application/pdf", "data/uploads/a.pdf")},
		{name: "nil", doc: nil, wantErr: "cannot be nil"},
		{name: "missing filename", doc: NewDocument("", "application/pdf", "p"), wantErr: "Filename"},
		{name: "missing content type", doc: NewDocument("a.pdf", "", "p"), wantErr: "ContentType"},
		{name: "missing path", doc: NewDocument("a.pdf", "application/pdf", ""), wantErr: "FilePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewChunks(t *testing.T) {
	chunks, err := NewChunks(7, []string{"first", "second"}, []string{"e1", "e2"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	for i, c := range chunks {
		assert.Equal(t, int64(7), c.DocumentID)
		assert.Equal(t, i, c.ChunkIndex)
	}
	assert.Equal(t, "second", chunks[1].Content)
	assert.Equal(t, "e2", chunks[1].EmbeddingID)
}

func TestNewChunks_LengthMismatch(t *testing.T) {
	_, err := NewChunks(1, []string{"a"}, nil)
	assert.Error(t, err)
}

func TestNewChunks_Empty(t *testing.T) {
	chunks, err := NewChunks(1, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestUnsupportedContentType(t *testing.T) {
	err := UnsupportedContentType("application/unknown")

	assert.True(t, errors.Is(err, ErrUnsupportedContentType))
	assert.Equal(t, "unsupported file type: application/unknown", err.Error())

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrCodeValidation, domainErr.Code)
}

func TestProcessingError(t *testing.T) {
	cause := errors.New("disk full")
	err := ProcessingError("save upload", cause)

	assert.Equal(t, ErrCodeProcessing, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save upload: disk full", err.Error())
}
