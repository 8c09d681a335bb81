package admin

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

func TestContentTypeForPath(t *testing.T) {
	assert.Equal(t, "application/pdf", contentTypeForPath("/tmp/report.pdf"))
	assert.Contains(t, contentTypeForPath("notes.txt"), "text/plain")
	assert.Equal(t, "application/octet-stream", contentTypeForPath("blob.unknownext"))
}

func TestWriteDocument_JSON(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := &domain.Document{
		ID:          2,
		Filename:    "a.txt",
		ContentType: "text/plain",
		FilePath:    "data/uploads/a.txt",
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	var buf bytes.Buffer
	require.NoError(t, writeDocument(&buf, outputJSON, doc))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a.txt", got["filename"])
	assert.Equal(t, "2025-03-01T12:00:00Z", got["created_at"])
	assert.Equal(t, []any{}, got["chunks"])
}

func TestWriteQueryResponses(t *testing.T) {
	docID := int64(5)
	responses := []domain.QueryResponse{{
		Answer: "Forty-two.",
		Sources: []domain.Source{
			{Content: "The answer is forty-two.", DocumentID: &docID, Score: 0.9},
			{Content: "unresolved", Score: 0.1},
		},
	}}

	var text bytes.Buffer
	require.NoError(t, writeQueryResponses(&text, outputText, responses))
	assert.Contains(t, text.String(), "Forty-two.")
	assert.Contains(t, text.String(), "[document 5, score 0.900]")
	assert.Contains(t, text.String(), "[document -, score 0.100]")

	var js bytes.Buffer
	require.NoError(t, writeQueryResponses(&js, outputJSON, responses))
	assert.JSONEq(t, `[{"answer":"Forty-two.","sources":[
		{"content":"The answer is forty-two.","document_id":5,"chunk_id":null,"score":0.9},
		{"content":"unresolved","document_id":null,"chunk_id":null,"score":0.1}
	]}]`, js.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
}
