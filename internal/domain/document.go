package domain

import (
	"fmt"
	"time"
)

// Document is an uploaded file and the chunks extracted from it.
// Rows are never mutated except for UpdatedAt.
type Document struct {
	ID          int64
	Filename    string
	ContentType string
	FilePath    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Chunks      []Chunk
}

// NewDocument creates a Document that has not been persisted yet
func NewDocument(filename, contentType, filePath string) *Document {
	return &Document{
		Filename:    filename,
		ContentType: contentType,
		FilePath:    filePath,
	}
}

// ValidateDocument validates a Document before it is stored
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.Filename == "" {
		return fmt.Errorf("document Filename is required")
	}

	if d.ContentType == "" {
		return fmt.Errorf("document ContentType is required")
	}

	if d.FilePath == "" {
		return fmt.Errorf("document FilePath is required")
	}

	return nil
}
