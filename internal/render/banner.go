package render

import (
	"fmt"
	"io"
)

// Banner prints the demo title panel.
func Banner(w io.Writer, st Styler) error {
	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n",
		st.Accent("LLM Tool-Call JSON Validator Demo"),
		st.Muted("Handles real LLM garbage → clean, safe output"),
	)
	return err
}

// Footer prints the closing line of the demo.
func Footer(w io.Writer, st Styler, accepted, total int) error {
	_, err := fmt.Fprintln(w, st.Good(fmt.Sprintf("Demo finished: %d of %d calls accepted.", accepted, total)))
	return err
}
