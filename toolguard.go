package toolguard

import (
	"encoding/json"
	"strconv"
)

// Action is the operation requested by a tool call.
type Action string

// Supported actions.
const (
	ActionSearch Action = "search"
	ActionAnswer Action = "answer"
)

// Bounds and default for the result count k.
const (
	DefaultK = 3
	MinK     = 1
	MaxK     = 5
)

// Payload keys recognized by Validate. Every other key is dropped with a warning.
const (
	KeyAction = "action"
	KeyQuery  = "q"
	KeyK      = "k"
)

// Clean is the sanitized tool call. The zero value is the empty result of a rejected call.
// Q is set only when Action is ActionSearch; K is always in [MinK, MaxK] for accepted calls.
type Clean struct {
	Action Action `json:"action" yaml:"action" jsonschema:"enum=search,enum=answer,description=Operation to perform"`
	Q      string `json:"q,omitempty" yaml:"q,omitempty" jsonschema:"minLength=1,description=Search query (search only)"`
	K      int    `json:"k" yaml:"k" jsonschema:"minimum=1,maximum=5,default=3,description=Number of results"`
}

// IsEmpty reports whether c is the empty result of a rejected call.
func (c Clean) IsEmpty() bool { return c.Action == "" }

// Payload converts c back into a payload with the recognized keys only.
// Validating it again yields c and no diagnostics.
func (c Clean) Payload() *Payload {
	p := NewPayload()
	if c.IsEmpty() {
		return p
	}
	p.Set(KeyAction, StringValue(string(c.Action)))
	if c.Action == ActionSearch {
		p.Set(KeyQuery, StringValue(c.Q))
	}
	p.Set(KeyK, NumberValue(json.Number(strconv.Itoa(c.K))))
	return p
}

// Severity classifies a Diagnostic.
type Severity int

const (
	// SeverityWarning marks a corrected or dropped field; the call is still accepted.
	SeverityWarning Severity = iota
	// SeverityFatal marks a failed gate; the Clean result is empty.
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Diagnostic is a human-readable note about a rejected, corrected, or dropped field.
// It marshals to its Message so wire formats carry plain strings.
type Diagnostic struct {
	Field    string
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string { return d.Message }

// MarshalJSON encodes the diagnostic as its message string.
func (d Diagnostic) MarshalJSON() ([]byte, error) { return json.Marshal(d.Message) }

// Diagnostics is the ordered list produced by Validate.
type Diagnostics []Diagnostic

// Strings returns the messages in order.
func (ds Diagnostics) Strings() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}

// HasFatal reports whether any diagnostic came from a fatal gate.
func (ds Diagnostics) HasFatal() bool {
	for _, d := range ds {
		if d.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with severity s.
func (ds Diagnostics) Count(s Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Result is the outcome of Sanitizer.Sanitize for well-formed JSON.
type Result struct {
	Clean       Clean
	Diagnostics Diagnostics
}

// OK reports whether the call was accepted (Clean is populated).
func (r Result) OK() bool { return !r.Clean.IsEmpty() }

// Report returns the wire shape of r.
func (r Result) Report() Report {
	rep := Report{Errors: r.Diagnostics.Strings()}
	if r.OK() {
		c := r.Clean
		rep.Clean = &c
	}
	return rep
}

// Report is the presentation shape {"clean": clean_or_null, "errors": [...]}.
type Report struct {
	Clean  *Clean   `json:"clean" yaml:"clean"`
	Errors []string `json:"errors" yaml:"errors"`
}

// ErrorReport is the presentation shape for input that never reached Validate.
type ErrorReport struct {
	Error string `json:"error" yaml:"error"`
}
