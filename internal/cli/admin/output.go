package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/DhanaAnjana/DocuMind/internal/domain"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

func documentJSON(d *domain.Document) map[string]any {
	chunks := make([]map[string]any, len(d.Chunks))
	for i, c := range d.Chunks {
		chunks[i] = map[string]any{
			"id":           c.ID,
			"document_id":  c.DocumentID,
			"content":      c.Content,
			"chunk_index":  c.ChunkIndex,
			"embedding_id": c.EmbeddingID,
			"created_at":   c.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return map[string]any{
		"id":           d.ID,
		"filename":     d.Filename,
		"content_type": d.ContentType,
		"file_path":    d.FilePath,
		"created_at":   d.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":   d.UpdatedAt.UTC().Format(time.RFC3339),
		"chunks":       chunks,
	}
}

func writeDocument(w io.Writer, format string, d *domain.Document) error {
	if format == outputJSON {
		return writeJSON(w, documentJSON(d))
	}
	_, err := fmt.Fprintf(w, "  %d: %s (%s, %d chunks, created: %s)\n",
		d.ID, d.Filename, d.ContentType, len(d.Chunks), d.CreatedAt.Format("2006-01-02 15:04:05"))
	return err
}

func writeQueryResponses(w io.Writer, format string, responses []domain.QueryResponse) error {
	if format == outputJSON {
		out := make([]map[string]any, len(responses))
		for i, resp := range responses {
			sources := make([]map[string]any, len(resp.Sources))
			for j, s := range resp.Sources {
				sources[j] = map[string]any{
					"content":     s.Content,
					"document_id": s.DocumentID,
					"chunk_id":    s.ChunkID,
					"score":       s.Score,
				}
			}
			out[i] = map[string]any{"answer": resp.Answer, "sources": sources}
		}
		return writeJSON(w, out)
	}

	for _, resp := range responses {
		fmt.Fprintln(w, resp.Answer)
		if len(resp.Sources) == 0 {
			continue
		}
		fmt.Fprintln(w, "\nSources:")
		for _, s := range resp.Sources {
			doc := "-"
			if s.DocumentID != nil {
				doc = fmt.Sprintf("%d", *s.DocumentID)
			}
			fmt.Fprintf(w, "  [document %s, score %.3f] %s\n", doc, s.Score, preview(s.Content, 80))
		}
	}
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
