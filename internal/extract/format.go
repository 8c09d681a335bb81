package extract

import (
	"mime"
	"strings"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

// Format is a document format the extractor can read.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatDOCX
	FormatXLSX
	FormatText
)

// Content types with a dedicated reader. Any text/* type is read as plain text.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatXLSX:
		return "xlsx"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat resolves a declared content type to a Format.
// Media type parameters such as charset are ignored.
func ParseFormat(contentType string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == ContentTypePDF:
		return FormatPDF, nil
	case mediaType == ContentTypeDOCX:
		return FormatDOCX, nil
	case mediaType == ContentTypeXLSX:
		return FormatXLSX, nil
	case strings.HasPrefix(mediaType, "text/"):
		return FormatText, nil
	default:
		return FormatUnknown, domain.UnsupportedContentType(contentType)
	}
}
