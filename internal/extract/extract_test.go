package extract

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
		wantErr     bool
	}{
		{contentType: "application/pdf", want: FormatPDF},
		{contentType: ContentTypeDOCX, want: FormatDOCX},
		{contentType: ContentTypeXLSX, want: FormatXLSX},
		{contentType: "text/plain", want: FormatText},
		{contentType: "text/markdown", want: FormatText},
		{contentType: "text/plain; charset=utf-8", want: FormatText},
		{contentType: "Application/PDF", want: FormatPDF},
		{contentType: "application/unknown", wantErr: true},
		{contentType: "application/octet-stream", wantErr: true},
		{contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, err := ParseFormat(tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
				assert.Equal(t, FormatUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	path := writeFile(t, "france.txt", []byte("Paris is the capital of France."))

	text, err := NewExtractor().Extract(path, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", text)
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	path := writeFile(t, "bad.txt", []byte{0xff, 0xfe, 0xfd})

	_, err := NewExtractor().Extract(path, "text/plain")
	assert.ErrorContains(t, err, "UTF-8")
}

func TestExtract_UnsupportedTypeDoesNotOpenFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.bin")

	text, err := NewExtractor().Extract(missing, "application/unknown")
	assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
	assert.NotContains(t, err.Error(), "no such file")
	assert.Empty(t, text)
}

func TestExtract_DOCX(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p/>
  </w:body>
</w:document>`

	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := NewExtractor().Extract(path, ContentTypeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph. Second paragraph. ", text)
}

func TestReadParagraphs_TabStopsAreNotText(t *testing.T) {
	body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/><w:tab w:val="right" w:pos="9360"/></w:tabs></w:pPr><w:r><w:t>Heading</w:t></w:r></w:p>
<w:p><w:r><w:t>Name</w:t></w:r><w:r><w:tab/><w:t>Value</w:t></w:r></w:p>
</w:body></w:document>`

	paragraphs, err := readParagraphs(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"Heading", "Name\tValue"}, paragraphs)
}

func TestReadParagraphs_TextBoxKeepsOuterParagraph(t *testing.T) {
	body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p>
  <w:r><w:t xml:space="preserve">Outer start </w:t></w:r>
  <w:r><w:pict><w:txbxContent><w:p><w:r><w:t>boxed</w:t></w:r></w:p></w:txbxContent></w:pict></w:r>
  <w:r><w:t>outer end</w:t></w:r>
</w:p>
</w:body></w:document>`

	paragraphs, err := readParagraphs(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"boxed", "Outer start outer end"}, paragraphs)
}

func TestExtract_DOCXMissingBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = NewExtractor().Extract(path, ContentTypeDOCX)
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestExtract_XLSX(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, wb.SetCellValue("Sheet1", "C1", "city"))
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", 42))
	_, err := wb.NewSheet("Second")
	require.NoError(t, err)
	require.NoError(t, wb.SetCellValue("Second", "B1", "Paris"))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	text, err := NewExtractor().Extract(path, ContentTypeXLSX)
	require.NoError(t, err)
	assert.Equal(t, "name city 42 Paris", text)
}

func TestExtract_PDF(t *testing.T) {
	path := writeFile(t, "hello.pdf", minimalPDF("Hello PDF"))

	text, err := NewExtractor().Extract(path, ContentTypePDF)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
}

func TestExtract_InvalidPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("this is not a pdf"))

	_, err := NewExtractor().Extract(path, ContentTypePDF)
	assert.Error(t, err)
}

// minimalPDF builds a one-page PDF showing text in Helvetica.
func minimalPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}
