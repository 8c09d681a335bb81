package admin

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DhanaAnjana/DocuMind/internal/cli"
	"github.com/DhanaAnjana/DocuMind/internal/service"
)

// IngestCmd uploads a local file through the ingestion pipeline without the HTTP server.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a local file",
		Long:  "Store, extract, chunk and index a local file exactly as an HTTP upload would",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().String("content-type", "", "Declared content type (defaults to the extension's MIME type)")
	cli.AddOutputFlag(cmd, outputText, outputJSON)

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]
	outputFormat, err := cli.OutputFormat(cmd)
	if err != nil {
		return err
	}

	contentType, _ := cmd.Flags().GetString("content-type")
	if contentType == "" {
		contentType = contentTypeForPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.ingestion.Ingest(ctx, service.IngestInput{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Body:        f,
	})
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", path, err)
	}

	if outputFormat != outputJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "Document ingested:")
	}
	return writeDocument(cmd.OutOrStdout(), outputFormat, doc)
}

func contentTypeForPath(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// QueryCmd answers a question from the indexed documents.
func QueryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a question about the ingested documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			outputFormat, err := cli.OutputFormat(cmd)
	if err != nil {
		return err
	}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			responses, err := a.query.Query(ctx, service.QueryInput{Query: args[0], Limit: limit})
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			return writeQueryResponses(cmd.OutOrStdout(), outputFormat, responses)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultQueryLimit, "Number of chunks to retrieve")
	cli.AddOutputFlag(cmd, outputText, outputJSON)

	return cmd
}

// DocumentsCmd lists stored documents.
func DocumentsCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "documents",
		Short: "List ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			outputFormat, err := cli.OutputFormat(cmd)
	if err != nil {
		return err
	}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			docs, err := a.documents.List(ctx, skip, limit)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputFormat == outputJSON {
				data := make([]map[string]any, len(docs))
				for i, d := range docs {
					data[i] = documentJSON(d)
				}
				return writeJSON(out, data)
			}

			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents found")
				return nil
			}
			fmt.Fprintln(out, "Documents:")
			for _, d := range docs {
				if err := writeDocument(out, outputFormat, d); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of documents to skip")
	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultListLimit, "Maximum number of documents")
	cli.AddOutputFlag(cmd, outputText, outputJSON)

	return cmd
}

// CheckCmd reports chunk rows whose vectors are missing and documents without chunks.
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the vector index against the database",
		Long:  "Report chunk rows whose embeddings are missing from the vector index and documents that have no chunks. Nothing is repaired.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			outputFormat, err := cli.OutputFormat(cmd)
	if err != nil {
		return err
	}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.consistency.Check(ctx)
			if err != nil {
				return fmt.Errorf("consistency check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputFormat == outputJSON {
				dangling := make([]map[string]any, len(report.DanglingChunks))
				for i, c := range report.DanglingChunks {
					dangling[i] = map[string]any{
						"id":           c.ID,
						"document_id":  c.DocumentID,
						"embedding_id": c.EmbeddingID,
					}
				}
				return writeJSON(out, map[string]any{
					"chunks_checked":           report.ChunksChecked,
					"dangling_chunks":          dangling,
					"documents_without_chunks": report.DocumentsWithoutChunks,
					"consistent":               report.Consistent(),
				})
			}

			fmt.Fprintf(out, "Chunks checked: %d\n", report.ChunksChecked)
			fmt.Fprintf(out, "Dangling chunks: %d\n", len(report.DanglingChunks))
			for _, c := range report.DanglingChunks {
				fmt.Fprintf(out, "  chunk %d (document %d, embedding %s)\n", c.ID, c.DocumentID, c.EmbeddingID)
			}
			fmt.Fprintf(out, "Documents without chunks: %d\n", len(report.DocumentsWithoutChunks))
			if !report.Consistent() {
				return fmt.Errorf("vector index is missing %d chunk embeddings", len(report.DanglingChunks))
			}
			return nil
		},
	}

	cli.AddOutputFlag(cmd, outputText, outputJSON)

	return cmd
}
