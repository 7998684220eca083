package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/skosovsky/toolguard"
)

const (
	inputMaxLen  = 70
	inputKeepLen = 67
)

// Row is one line of the demo table: the raw payload and what the sanitizer made of it.
type Row struct {
	Input   []byte
	Outcome toolguard.Outcome
}

// Table writes rows as a rounded table with columns #, input, clean output and diagnostics.
func Table(w io.Writer, title string, rows []Row, st Styler) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, st.Accent(title)); err != nil {
			return err
		}
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader([]string{"#", "Input (truncated)", "Clean Output", "Errors / Warnings"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	for i, r := range rows {
		clean, errs := cells(r.Outcome, st)
		if err := table.Append([]string{strconv.Itoa(i + 1), truncateInput(r.Input), clean, errs}); err != nil {
			return err
		}
	}
	return table.Render()
}

// cells formats the clean and diagnostics columns of one outcome.
func cells(o toolguard.Outcome, st Styler) (string, string) {
	if o.Err != nil {
		var msg string
		if er, ok := o.Report().(toolguard.ErrorReport); ok {
			msg = er.Error
		}
		return st.Bad("{}"), st.Bad("• " + msg)
	}
	clean := st.Bad("{}")
	if o.Result.OK() {
		b, err := json.Marshal(o.Result.Clean)
		if err == nil {
			clean = st.Good(string(b))
		}
	}
	if len(o.Result.Diagnostics) == 0 {
		return clean, st.Good("None")
	}
	lines := make([]string, len(o.Result.Diagnostics))
	for i, d := range o.Result.Diagnostics {
		lines[i] = st.Bad("• " + d.Message)
	}
	return clean, strings.Join(lines, "\n")
}

// truncateInput compacts valid JSON and cuts it to inputKeepLen runes plus "..." when it
// is longer than inputMaxLen runes.
func truncateInput(raw []byte) string {
	var buf bytes.Buffer
	text := strings.TrimSpace(string(raw))
	if err := json.Compact(&buf, raw); err == nil {
		text = buf.String()
	}
	runes := []rune(text)
	if len(runes) > inputMaxLen {
		return string(runes[:inputKeepLen]) + "..."
	}
	return text
}
