package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DhanaAnjana/DocuMind/internal/cli"
	"github.com/DhanaAnjana/DocuMind/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "documind",
		Short:         "DocuMind document question answering service",
		Long:          "DocuMind ingests PDF, DOCX, XLSX and text documents and answers questions about them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IngestCmd())
	rootCmd.AddCommand(admin.QueryCmd())
	rootCmd.AddCommand(admin.DocumentsCmd())
	rootCmd.AddCommand(admin.CheckCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
