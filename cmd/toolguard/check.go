package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolguard"
	"github.com/skosovsky/toolguard/internal/render"
)

func newCheckCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "check [JSON|-]",
		Short: "Validate one tool call payload",
		Long: `Validate one tool call payload given as an argument or on stdin ("-" or no argument)
and print {"clean": ..., "errors": [...]}. Exits with status 1 when the call is rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if len(args) == 0 || args[0] == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				raw = b
			} else {
				raw = []byte(strings.TrimSpace(args[0]))
			}

			s, err := newSanitizer(cmd)
			if err != nil {
				return err
			}
			res, err := s.Sanitize(cmd.Context(), raw)
			if err != nil {
				if !toolguard.IsClientError(err) {
					return err
				}
				if encErr := render.Encode(cmd.OutOrStdout(), output, toolguard.ErrorReport{Error: err.Error()}); encErr != nil {
					return encErr
				}
				return errRejected
			}
			if err := render.Encode(cmd.OutOrStdout(), output, res.Report()); err != nil {
				return err
			}
			if !res.OK() {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", render.FormatJSON, "Output format: json or yaml")
	return cmd
}
