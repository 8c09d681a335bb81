package admin

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanaAnjana/DocuMind/internal/cli"
)

func TestCommandSchemas(t *testing.T) {
	for _, cmd := range []*cobra.Command{IngestCmd(), QueryCmd(), DocumentsCmd(), CheckCmd()} {
		schema := cli.GenerateSchema(cmd)
		assert.Equal(t, []string{outputText, outputJSON}, schema.Outputs, schema.Name)
	}

	serve := cli.GenerateSchema(ServeCmd())
	assert.Empty(t, serve.Outputs)
	var port *cli.FlagSchema
	for i := range serve.Flags {
		if serve.Flags[i].Name == "port" {
			port = &serve.Flags[i]
		}
	}
	require.NotNil(t, port)
	assert.Equal(t, "DOCUMIND_PORT", port.Env)
}
