package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeProcessing    = "PROCESSING_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrUnsupportedContentType = NewDomainError(ErrCodeValidation, "unsupported file type")
	ErrInvalidFilename        = NewDomainError(ErrCodeValidation, "invalid filename")
	ErrEmptyQuery             = NewDomainError(ErrCodeValidation, "query must not be empty")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)

// UnsupportedContentType reports a content type no extractor handles.
func UnsupportedContentType(contentType string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
}

// ProcessingError wraps a failure of an ingestion or query stage.
// Such errors are reported to the caller as client errors carrying the cause's message.
func ProcessingError(stage string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeProcessing, stage, err)
}
