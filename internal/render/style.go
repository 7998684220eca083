package render

import (
	"github.com/muesli/termenv"
)

// Styler colors terminal text. With color disabled it returns text unchanged.
type Styler struct {
	profile termenv.Profile
}

// NewStyler returns a Styler using the terminal's color profile, or plain ASCII when
// color is false.
func NewStyler(color bool) Styler {
	if !color {
		return Styler{profile: termenv.Ascii}
	}
	return Styler{profile: termenv.ColorProfile()}
}

func (s Styler) paint(text, hex string) string {
	return termenv.String(text).Foreground(s.profile.Color(hex)).String()
}

// Good renders accepted output.
func (s Styler) Good(text string) string { return s.paint(text, "#22c55e") }

// Bad renders rejections and warnings.
func (s Styler) Bad(text string) string { return s.paint(text, "#ef4444") }

// Accent renders titles.
func (s Styler) Accent(text string) string {
	return termenv.String(text).Foreground(s.profile.Color("#c084fc")).Bold().String()
}

// Muted renders secondary text.
func (s Styler) Muted(text string) string { return s.paint(text, "#38bdf8") }
