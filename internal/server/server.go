// Package server exposes the sanitizer over HTTP: an HTML form, JSON endpoints, the tool
// definition and Prometheus metrics.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skosovsky/toolguard"
)

// formField is the form field carrying the JSON payload.
const formField = "json_input"

const exampleInput = `{"action": "search", "q": "  capital of Japan  ", "k": "5", "model": "gpt-4"}`

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Options configure the HTTP handler.
type Options struct {
	Logger         *slog.Logger
	MaxBodyBytes   int64
	MaxConcurrency int
	// Registry receives the server metrics and backs /metrics. Nil creates a private one.
	Registry *prometheus.Registry
}

// Server holds the handler dependencies.
type Server struct {
	sanitizer  *toolguard.Sanitizer
	definition toolguard.Definition
	logger     *slog.Logger
	maxBody    int64
}

// NewHandler builds the router and a Sanitizer wired with recovery, metrics and logging.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	m := newMetrics(opts.Registry)
	sanitizer, err := toolguard.NewSanitizer(
		toolguard.WithMaxConcurrency(opts.MaxConcurrency),
		toolguard.WithMiddleware(
			toolguard.WithRecovery(),
			m.middleware(),
			toolguard.WithLogging(opts.Logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sanitizer: %w", err)
	}
	def, err := toolguard.NewDefinition(toolguard.DefaultToolName, toolguard.DefaultToolDescription)
	if err != nil {
		return nil, fmt.Errorf("building tool definition: %w", err)
	}
	s := &Server{
		sanitizer:  sanitizer,
		definition: def,
		logger:     opts.Logger,
		maxBody:    opts.MaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.Home)
	r.Post("/validate", s.Validate)
	r.Post("/validate/batch", s.ValidateBatch)
	r.Get("/schema", s.Schema)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	return r, nil
}

// Home handles GET /: the input form.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Title, Example string }{
		Title:   "LLM Tool-Call JSON Validator",
		Example: exampleInput,
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.ErrorContext(r.Context(), "render index", "error", err)
	}
}

// Validate handles POST /validate with either a json_input form field or a raw JSON body.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	raw, status, err := s.readInput(w, r)
	if err != nil {
		s.writeJSON(w, r, status, toolguard.ErrorReport{Error: err.Error()})
		return
	}
	res, err := s.sanitizer.Sanitize(r.Context(), raw)
	if err != nil {
		s.writeSanitizeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res.Report())
}

// ValidateBatch handles POST /validate/batch: a JSON array of payloads, answered in order.
func (s *Server) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		status, msg := readErrorStatus(err)
		s.writeJSON(w, r, status, toolguard.ErrorReport{Error: msg})
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, toolguard.ErrorReport{Error: "Invalid JSON: " + err.Error()})
		return
	}
	inputs := make([][]byte, len(items))
	for i, item := range items {
		inputs[i] = item
	}
	outcomes := s.sanitizer.SanitizeBatch(r.Context(), inputs)
	reports := make([]any, len(outcomes))
	for i, o := range outcomes {
		reports[i] = o.Report()
	}
	s.writeJSON(w, r, http.StatusOK, reports)
}

// Schema handles GET /schema: the LLM tool definition.
func (s *Server) Schema(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.definition)
}

// readInput returns the payload bytes, or an HTTP status and a client-facing error.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) ([]byte, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			status, msg := readErrorStatus(err)
			return nil, status, errors.New(msg)
		}
		return body, 0, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.maxBody); err != nil {
			status, msg := readErrorStatus(err)
			return nil, status, errors.New(msg)
		}
	default:
		if err := r.ParseForm(); err != nil {
			status, msg := readErrorStatus(err)
			return nil, status, errors.New(msg)
		}
	}
	if _, ok := r.PostForm[formField]; !ok {
		return nil, http.StatusBadRequest, fmt.Errorf("missing form field %q", formField)
	}
	return []byte(r.PostForm.Get(formField)), 0, nil
}

func readErrorStatus(err error) (int, string) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", mbe.Limit)
	}
	return http.StatusBadRequest, "cannot read request: " + err.Error()
}

func (s *Server) writeSanitizeError(w http.ResponseWriter, r *http.Request, err error) {
	if toolguard.IsClientError(err) {
		s.writeJSON(w, r, http.StatusBadRequest, toolguard.ErrorReport{Error: err.Error()})
		return
	}
	s.logger.ErrorContext(r.Context(), "sanitize failed", "error", err)
	s.writeJSON(w, r, http.StatusInternalServerError, toolguard.ErrorReport{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "encode response", "error", err)
	}
}
