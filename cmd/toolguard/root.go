package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolguard"
	"github.com/skosovsky/toolguard/internal/config"
)

// errRejected signals a rejected or undecodable payload; the report is already printed.
var errRejected = errors.New("tool call rejected")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toolguard",
		Short: "Validate and sanitize LLM tool call payloads",
		Long: `toolguard turns loosely typed tool call JSON ({"action", "q", "k"}) into a clean,
well-typed call plus human-readable diagnostics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCheckCmd(), newDemoCmd(), newServeCmd(), newSchemaCmd())
	return root
}

// newSanitizer builds a Sanitizer from the environment configuration.
func newSanitizer(cmd *cobra.Command) (*toolguard.Sanitizer, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	return toolguard.NewSanitizer(
		toolguard.WithMaxConcurrency(cfg.MaxConcurrency),
		toolguard.WithMiddleware(toolguard.WithRecovery()),
	)
}
