package main

import (
	"github.com/spf13/cobra"

	"github.com/skosovsky/toolguard"
	"github.com/skosovsky/toolguard/internal/render"
)

func newSchemaCmd() *cobra.Command {
	var output, name, description string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the tool definition (JSON Schema of a clean call) for LLM providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := toolguard.NewDefinition(name, description)
			if err != nil {
				return err
			}
			return render.Encode(cmd.OutOrStdout(), output, def)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatJSON, "Output format: json or yaml")
	cmd.Flags().StringVar(&name, "name", toolguard.DefaultToolName, "Tool name")
	cmd.Flags().StringVar(&description, "description", toolguard.DefaultToolDescription, "Tool description")
	return cmd
}
