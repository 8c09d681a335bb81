// Package cli provides shared CLI utilities for documind.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag annotations read back by GenerateSchema.
const (
	envAnnotation    = "documind_env"
	formatAnnotation = "documind_formats"
)

const outputFlag = "output"

// FlagSchema describes one flag in --help-json output.
type FlagSchema struct {
	Name        string   `json:"name"`
	Shorthand   string   `json:"shorthand,omitempty"`
	Type        string   `json:"type"`
	Default     string   `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Env         string   `json:"env,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	Required    bool     `json:"required"`
}

// CommandSchema describes a documind command. Outputs lists the formats
// accepted by its --output flag, empty for commands that only log.
type CommandSchema struct {
	Name        string          `json:"name"`
	Use         string          `json:"use,omitempty"`
	Description string          `json:"description,omitempty"`
	Long        string          `json:"long,omitempty"`
	Outputs     []string        `json:"outputs,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

// BindEnv records the DOCUMIND_* variable that a flag overrides.
func BindEnv(cmd *cobra.Command, flag, env string) {
	_ = cmd.Flags().SetAnnotation(flag, envAnnotation, []string{env})
}

// AddOutputFlag registers -o/--output. The first format is the default.
func AddOutputFlag(cmd *cobra.Command, formats ...string) {
	cmd.Flags().StringP(outputFlag, "o", formats[0], fmt.Sprintf("Output format (%s)", strings.Join(formats, " or ")))
	_ = cmd.Flags().SetAnnotation(outputFlag, formatAnnotation, formats)
}

// OutputFormat returns the --output value, rejecting formats the command
// did not register.
func OutputFormat(cmd *cobra.Command) (string, error) {
	f := cmd.Flags().Lookup(outputFlag)
	if f == nil {
		return "", fmt.Errorf("command %s has no --%s flag", cmd.Name(), outputFlag)
	}
	format := f.Value.String()
	if formats := f.Annotations[formatAnnotation]; len(formats) > 0 && !slices.Contains(formats, format) {
		return "", fmt.Errorf("unsupported output format %q (want %s)", format, strings.Join(formats, " or "))
	}
	return format, nil
}

// GenerateSchema walks cmd and its visible subcommands.
func GenerateSchema(cmd *cobra.Command) CommandSchema {
	schema := CommandSchema{
		Name:        cmd.Name(),
		Use:         cmd.Use,
		Description: cmd.Short,
		Long:        cmd.Long,
		Flags:       extractFlags(cmd),
	}
	if f := cmd.LocalFlags().Lookup(outputFlag); f != nil {
		schema.Outputs = f.Annotations[formatAnnotation]
	}

	for _, sub := range cmd.Commands() {
		if sub.Name() == "help" || sub.Hidden {
			continue
		}
		schema.Subcommands = append(schema.Subcommands, GenerateSchema(sub))
	}

	return schema
}

func extractFlags(cmd *cobra.Command) []FlagSchema {
	var flags []FlagSchema

	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help-json" || f.Name == "help" {
			return
		}
		flags = append(flags, flagToSchema(f))
	})

	return flags
}

func flagToSchema(f *pflag.Flag) FlagSchema {
	schema := FlagSchema{
		Name:        f.Name,
		Shorthand:   f.Shorthand,
		Type:        f.Value.Type(),
		Default:     f.DefValue,
		Description: f.Usage,
		Choices:     f.Annotations[formatAnnotation],
	}
	if env := f.Annotations[envAnnotation]; len(env) > 0 {
		schema.Env = env[0]
	}
	if _, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; ok {
		schema.Required = true
	}
	return schema
}

// PrintSchema writes the command schema as JSON and exits.
func PrintSchema(cmd *cobra.Command) {
	schema := GenerateSchema(cmd)
	output, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
	os.Exit(0)
}

// AddHelpJSONFlag adds the --help-json flag to a command.
func AddHelpJSONFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("help-json", false, "Output command schema as JSON")
}

// CheckHelpJSON handles --help-json before cobra validates positional args,
// so `documind query --help-json` works without a question.
func CheckHelpJSON(rootCmd *cobra.Command) {
	for i, arg := range os.Args {
		if arg == "--help-json" {
			PrintSchema(findTargetCommand(rootCmd, os.Args[1:i]))
		}
	}
}

func findTargetCommand(cmd *cobra.Command, args []string) *cobra.Command {
	if len(args) == 0 {
		return cmd
	}

	for _, sub := range cmd.Commands() {
		if sub.Name() == args[0] || sub.HasAlias(args[0]) {
			return findTargetCommand(sub, args[1:])
		}
	}

	return cmd
}
