package toolguard

import (
	"math"
	"strconv"
	"strings"
)

// Diagnostic messages. Presentation layers show them verbatim.
const (
	msgInvalidAction = "Missing or invalid 'action' (must be string)"
	msgMissingQuery  = "Missing 'q' when action='search'"
	msgEmptyQuery    = "'q' is empty after trimming"
)

// Validate sanitizes a tool call payload. It never fails: every problem becomes a
// Diagnostic. A fatal gate (bad action; missing or blank q for a search) returns an empty
// Clean with exactly that one diagnostic. Otherwise Clean carries the trimmed action, the
// trimmed q for searches, and k in [MinK, MaxK], followed by warnings for a defaulted k
// and for each unknown key in payload order.
//
// For ActionAnswer a supplied q is dropped without a diagnostic.
//
// A nil payload is treated as {}.
func Validate(p *Payload) (Clean, Diagnostics) {
	diags := Diagnostics{}
	var clean Clean

	action, d, ok := resolveAction(p)
	if !ok {
		return Clean{}, append(diags, d)
	}
	clean.Action = action

	if action == ActionSearch {
		q, d, ok := resolveQuery(p)
		if !ok {
			return Clean{}, append(diags, d)
		}
		clean.Q = q
	}

	k, d, ok := resolveK(p)
	if !ok {
		diags = append(diags, d)
	}
	clean.K = k

	diags = append(diags, sweepUnknown(p)...)
	return clean, diags
}

// resolveAction is the first fatal gate.
func resolveAction(p *Payload) (Action, Diagnostic, bool) {
	raw, _ := p.Get(KeyAction)
	s, isString := raw.AsString()
	if !isString {
		return "", fatal(KeyAction, msgInvalidAction), false
	}
	action := Action(strings.TrimSpace(s))
	switch action {
	case ActionSearch, ActionAnswer:
		return action, Diagnostic{}, true
	default:
		return "", fatal(KeyAction, "Invalid action: "+quoteLiteral(string(action))), false
	}
}

// resolveQuery is the second fatal gate, run for searches only. Non-string values are
// accepted in their text form.
func resolveQuery(p *Payload) (string, Diagnostic, bool) {
	raw, present := p.Get(KeyQuery)
	if !present || raw.IsNull() {
		return "", fatal(KeyQuery, msgMissingQuery), false
	}
	q := strings.TrimSpace(raw.Text())
	if q == "" {
		return "", fatal(KeyQuery, msgEmptyQuery), false
	}
	return q, Diagnostic{}, true
}

// resolveK returns DefaultK and a warning when k is present but unusable.
// Absent and null k silently use DefaultK.
func resolveK(p *Payload) (int, Diagnostic, bool) {
	raw, present := p.Get(KeyK)
	if !present || raw.IsNull() {
		return DefaultK, Diagnostic{}, true
	}
	k, ok := coerceK(raw)
	if !ok {
		return DefaultK, Diagnostic{
			Field:    KeyK,
			Severity: SeverityWarning,
			Message:  "Invalid 'k'=" + raw.Literal() + " → using default " + strconv.Itoa(DefaultK),
		}, false
	}
	return k, Diagnostic{}, true
}

// coerceK tries, in order: reject booleans, truncate numbers, parse the trimmed text form.
func coerceK(raw Value) (int, bool) {
	var k float64
	switch raw.Kind() {
	case KindBool:
		return 0, false
	case KindNumber:
		n, _ := raw.AsNumber()
		if i, err := n.Int64(); err == nil {
			k = float64(i)
			break
		}
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		k = math.Trunc(f)
	default:
		i, err := strconv.Atoi(strings.TrimSpace(raw.Text()))
		if err != nil {
			return 0, false
		}
		k = float64(i)
	}
	if k < MinK || k > MaxK {
		return 0, false
	}
	return int(k), true
}

// sweepUnknown reports every key outside action, q and k in payload order.
func sweepUnknown(p *Payload) Diagnostics {
	var out Diagnostics
	for _, key := range p.Keys() {
		switch key {
		case KeyAction, KeyQuery, KeyK:
			continue
		}
		out = append(out, Diagnostic{
			Field:    key,
			Severity: SeverityWarning,
			Message:  "Removed unknown key: " + quoteLiteral(key),
		})
	}
	return out
}

func fatal(field, msg string) Diagnostic {
	return Diagnostic{Field: field, Severity: SeverityFatal, Message: msg}
}
