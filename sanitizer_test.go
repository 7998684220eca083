package toolguard

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSanitizer_Defaults(t *testing.T) {
	s, err := NewSanitizer()
	require.NoError(t, err)
	assert.True(t, s.opts.contractCheck)
	assert.Equal(t, 10, s.opts.maxConcurrency)
	assert.Empty(t, s.opts.middlewares)
}

func TestNewSanitizer_Options(t *testing.T) {
	mw := func(next SanitizeFunc) SanitizeFunc { return next }
	s, err := NewSanitizer(WithContractCheck(false), WithMaxConcurrency(0), WithMiddleware(mw))
	require.NoError(t, err)
	assert.False(t, s.opts.contractCheck)
	assert.Equal(t, 0, s.opts.maxConcurrency)
	assert.Len(t, s.opts.middlewares, 1)
}

func TestSanitizer_Sanitize(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer()
	require.NoError(t, err)
	tests := []struct {
		name     string
		input    string
		clean    Clean
		errors   []string
		clientEr bool
	}{
		{
			name:   "accepted with warning",
			input:  `{"action":"search","q":"  capital of Japan  ","k":"5","model":"gpt-4"}`,
			clean:  Clean{Action: ActionSearch, Q: "capital of Japan", K: 5},
			errors: []string{"Removed unknown key: 'model'"},
		},
		{
			name:   "rejected",
			input:  `{"action":"blah"}`,
			errors: []string{"Invalid action: 'blah'"},
		},
		{name: "invalid json", input: `{"action":}`, clientEr: true},
		{name: "not an object", input: `[]`, clientEr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := s.Sanitize(context.Background(), []byte(tt.input))
			if tt.clientEr {
				require.Error(t, err)
				assert.True(t, IsClientError(err))
				assert.True(t, strings.HasPrefix(err.Error(), "Invalid JSON: "))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.clean, res.Clean)
			assert.Equal(t, tt.errors, res.Diagnostics.Strings())
			assert.Equal(t, !tt.clean.IsEmpty(), res.OK())
		})
	}
}

func TestSanitizer_ValidatePayload(t *testing.T) {
	s, err := NewSanitizer()
	require.NoError(t, err)
	res, err := s.ValidatePayload(NewPayload().Set("action", StringValue("answer")).Set("k", StringValue("4")))
	require.NoError(t, err)
	assert.Equal(t, Clean{Action: ActionAnswer, K: 4}, res.Clean)
	assert.Empty(t, res.Diagnostics)
}

func TestSanitizer_Schema(t *testing.T) {
	s, err := NewSanitizer()
	require.NoError(t, err)
	schema := s.Schema()
	schema["type"] = "mutated"
	assert.Equal(t, "object", s.Schema()["type"], "Schema must return a copy")
}

func TestSanitizer_Use_ReplacesChain(t *testing.T) {
	s, err := NewSanitizer()
	require.NoError(t, err)
	var calls atomic.Int32
	counting := func(next SanitizeFunc) SanitizeFunc {
		return func(ctx context.Context, raw []byte) (Result, error) {
			calls.Add(1)
			return next(ctx, raw)
		}
	}
	s.Use(counting)
	s.Use(counting) // replaces, does not double-wrap
	_, err = s.Sanitize(context.Background(), []byte(`{"action":"answer"}`))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	s.Use()
	_, err = s.Sanitize(context.Background(), []byte(`{"action":"answer"}`))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSanitizer_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next SanitizeFunc) SanitizeFunc {
			return func(ctx context.Context, raw []byte) (Result, error) {
				order = append(order, name)
				return next(ctx, raw)
			}
		}
	}
	s, err := NewSanitizer(WithMiddleware(mark("outer"), mark("inner")))
	require.NoError(t, err)
	_, err = s.Sanitize(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
