// Package testutil provides test helpers for toolguard (payload parsing, sanitizers).
package testutil

import (
	"testing"

	"github.com/skosovsky/toolguard"
)

// MustParse decodes a JSON object into a Payload or fails the test.
func MustParse(tb testing.TB, s string) *toolguard.Payload {
	tb.Helper()
	p, err := toolguard.ParsePayload([]byte(s))
	if err != nil {
		tb.Fatalf("parse %q: %v", s, err)
	}
	return p
}
