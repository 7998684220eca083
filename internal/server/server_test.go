package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/toolguard/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestHandler(t *testing.T, reg *prometheus.Registry) http.Handler {
	t.Helper()
	h, err := NewHandler(Options{
		Logger:       logging.NewNop(),
		MaxBodyBytes: 4096,
		Registry:     reg,
	})
	require.NoError(t, err)
	return h
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(input string) *http.Request {
	form := url.Values{formField: {input}}
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHome(t *testing.T) {
	rec := do(newTestHandler(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `name="json_input"`)
	assert.Contains(t, rec.Body.String(), "capital of Japan")
}

func TestValidate_Form(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		status int
		expect string
	}{
		{
			"accepted with warning",
			`{"action":"search","q":"  capital of Japan  ","k":"5","model":"gpt-4"}`,
			http.StatusOK,
			`{"clean":{"action":"search","q":"capital of Japan","k":5},"errors":["Removed unknown key: 'model'"]}`,
		},
		{
			"rejected",
			`{"action":"search","q":""}`,
			http.StatusOK,
			`{"clean":null,"errors":["'q' is empty after trimming"]}`,
		},
		{
			"clean answer",
			`{"action":"answer","q":"ignore this","k":2}`,
			http.StatusOK,
			`{"clean":{"action":"answer","k":2},"errors":[]}`,
		},
	}
	h := newTestHandler(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, postForm(tt.input))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expect, rec.Body.String())
		})
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	rec := do(newTestHandler(t, nil), postForm(`{"action": search}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["error"], "Invalid JSON: "), body["error"])
	assert.NotContains(t, body, "errors")
}

func TestValidate_JSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(`{"action":"search","q":"test","k":true}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := do(newTestHandler(t, nil), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clean":{"action":"search","q":"test","k":3},"errors":["Invalid 'k'=True → using default 3"]}`, rec.Body.String())
}

func TestValidate_MissingField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("other=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(newTestHandler(t, nil), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing form field")
}

func TestValidate_TooLarge(t *testing.T) {
	big := `{"action":"answer","pad":"` + strings.Repeat("x", 8192) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := do(newTestHandler(t, nil), req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidateBatch(t *testing.T) {
	body := `[{"action":"answer"}, {"action":"blah"}, [1], {"k":4}]`
	req := httptest.NewRequest(http.MethodPost, "/validate/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := do(newTestHandler(t, nil), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"clean":{"action":"answer","k":3},"errors":[]},
		{"clean":null,"errors":["Invalid action: 'blah'"]},
		{"error":"Invalid JSON: payload must be a JSON object, got array"},
		{"clean":null,"errors":["Missing or invalid 'action' (must be string)"]}
	]`, rec.Body.String())
}

func TestValidateBatch_NotAnArray(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate/batch", strings.NewReader(`{"action":"answer"}`))
	rec := do(newTestHandler(t, nil), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON: ")
}

func TestSchema(t *testing.T) {
	rec := do(newTestHandler(t, nil), httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var def struct {
		Name       string         `json:"name"`
		Parameters map[string]any `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &def))
	assert.Equal(t, "search_or_answer", def.Name)
	assert.Equal(t, "object", def.Parameters["type"])
}

func TestHealthz(t *testing.T) {
	rec := do(newTestHandler(t, nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newTestHandler(t, reg)
	do(h, postForm(`{"action":"answer","extra":1}`))
	do(h, postForm(`{"action":"nope"}`))
	do(h, postForm(`not json`))

	expected := `
# HELP toolguard_validations_total Tool call validations by outcome
# TYPE toolguard_validations_total counter
toolguard_validations_total{outcome="accepted"} 1
toolguard_validations_total{outcome="invalid_json"} 1
toolguard_validations_total{outcome="rejected"} 1
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(expected), "toolguard_validations_total"))

	rec := do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `toolguard_diagnostics_total{severity="fatal"} 1`)
	assert.Contains(t, rec.Body.String(), `toolguard_diagnostics_total{severity="warning"} 1`)
}

func TestRun_Shutdown(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second, logging.NewNop()) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	err := Run(context.Background(), srv, time.Second, logging.NewNop())
	assert.Error(t, err)
}
