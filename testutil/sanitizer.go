package testutil

import (
	"testing"

	"github.com/skosovsky/toolguard"
)

// NewTestSanitizer returns a Sanitizer with panic recovery enabled and the contract check
// on, suitable for tests. Extra options are applied after the defaults.
func NewTestSanitizer(tb testing.TB, opts ...toolguard.Option) *toolguard.Sanitizer {
	tb.Helper()
	all := append([]toolguard.Option{
		toolguard.WithContractCheck(true),
		toolguard.WithMiddleware(toolguard.WithRecovery()),
	}, opts...)
	s, err := toolguard.NewSanitizer(all...)
	if err != nil {
		tb.Fatalf("new sanitizer: %v", err)
	}
	return s
}
