package main

import (
	"github.com/spf13/cobra"

	"github.com/skosovsky/toolguard/internal/demo"
	"github.com/skosovsky/toolguard/internal/render"
)

func newDemoCmd() *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in payloads and print a results table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSanitizer(cmd)
			if err != nil {
				return err
			}
			inputs := demo.Cases()
			outcomes := s.SanitizeBatch(cmd.Context(), inputs)

			rows := make([]render.Row, len(inputs))
			accepted := 0
			for i, o := range outcomes {
				rows[i] = render.Row{Input: inputs[i], Outcome: o}
				if o.Err == nil && o.Result.OK() {
					accepted++
				}
			}

			out := cmd.OutOrStdout()
			st := render.NewStyler(!noColor)
			if err := render.Banner(out, st); err != nil {
				return err
			}
			if err := render.Table(out, "20 Real-World Test Cases", rows, st); err != nil {
				return err
			}
			return render.Footer(out, st, accepted, len(rows))
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	return cmd
}
