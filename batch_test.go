package toolguard

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBatch_PreservesOrder(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer(WithMaxConcurrency(2))
	require.NoError(t, err)
	inputs := make([][]byte, 0, 30)
	for i := range 30 {
		inputs = append(inputs, fmt.Appendf(nil, `{"action":"search","q":"query %d","k":%d}`, i, i%5+1))
	}
	out := s.SanitizeBatch(context.Background(), inputs)
	require.Len(t, out, len(inputs))
	for i, o := range out {
		require.NoError(t, o.Err)
		assert.Equal(t, i, o.Index)
		assert.Equal(t, fmt.Sprintf("query %d", i), o.Result.Clean.Q)
		assert.Equal(t, i%5+1, o.Result.Clean.K)
	}
}

func TestSanitizeBatch_PartialFailure(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer(WithMaxConcurrency(0))
	require.NoError(t, err)
	out := s.SanitizeBatch(context.Background(), [][]byte{
		[]byte(`{"action":"answer"}`),
		[]byte(`{broken`),
		[]byte(`{"action":"nope"}`),
	})
	require.Len(t, out, 3)
	assert.True(t, out[0].Result.OK())
	assert.True(t, IsClientError(out[1].Err))
	assert.NoError(t, out[2].Err)
	assert.False(t, out[2].Result.OK())

	b, err := json.Marshal([]any{out[0].Report(), out[1].Report(), out[2].Report()})
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, map[string]any{"action": "answer", "k": float64(3)}, decoded[0]["clean"])
	assert.Contains(t, decoded[1]["error"], "Invalid JSON: ")
	assert.Nil(t, decoded[2]["clean"])
	assert.Equal(t, []any{"Invalid action: 'nope'"}, decoded[2]["errors"])
}

func TestSanitizeBatch_Cancelled(t *testing.T) {
	t.Parallel()
	s, err := NewSanitizer()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := s.SanitizeBatch(ctx, [][]byte{[]byte(`{}`), []byte(`{}`)})
	require.Len(t, out, 2)
	for _, o := range out {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func TestSanitizeBatch_Empty(t *testing.T) {
	s, err := NewSanitizer()
	require.NoError(t, err)
	assert.Empty(t, s.SanitizeBatch(context.Background(), nil))
}

func TestOutcome_Report_HidesSystemDetail(t *testing.T) {
	o := Outcome{Err: &SystemError{Err: ErrContract}}
	assert.Equal(t, ErrorReport{Error: "internal error during tool call validation"}, o.Report())
}
