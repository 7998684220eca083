package toolguard

import (
	"context"
	"sync"

	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// Sanitizer is the byte-level entry point: it decodes JSON text, runs Validate, and checks
// accepted results against the Clean schema. It is safe for concurrent use.
type Sanitizer struct {
	schemaMap map[string]any
	contract  *santhosh.Schema
	opts      options

	mu      sync.RWMutex
	handler SanitizeFunc // raw sanitize wrapped with middlewares
}

// NewSanitizer creates a Sanitizer with the given options.
// It fails only if the Clean schema cannot be generated or compiled.
func NewSanitizer(opts ...Option) (*Sanitizer, error) {
	o := options{
		contractCheck:  true,
		maxConcurrency: 10,
	}
	for _, opt := range opts {
		opt(&o)
	}
	schemaMap, err := generateSchema()
	if err != nil {
		return nil, err
	}
	contract, err := compileContract(schemaMap)
	if err != nil {
		return nil, err
	}
	s := &Sanitizer{
		schemaMap: schemaMap,
		contract:  contract,
		opts:      o,
	}
	s.handler = chain(s.sanitize, o.middlewares)
	return s, nil
}

// Schema returns a shallow copy of the Clean JSON Schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (s *Sanitizer) Schema() map[string]any {
	return cloneSchema(s.schemaMap)
}

// Use replaces the middleware chain and rewraps from the raw sanitize function, so calling
// it again never double-wraps. The first middleware is outermost.
func (s *Sanitizer) Use(middlewares ...Middleware) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.middlewares = middlewares
	s.handler = chain(s.sanitize, middlewares)
}

// Sanitize decodes raw and validates it. Malformed JSON and non-object documents return a
// *ClientError ("Invalid JSON: ..."); everything inside a well-formed object is reported
// through Result.Diagnostics.
func (s *Sanitizer) Sanitize(ctx context.Context, raw []byte) (Result, error) {
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()
	return h(ctx, raw)
}

func (s *Sanitizer) sanitize(_ context.Context, raw []byte) (Result, error) {
	p, err := ParsePayload(raw)
	if err != nil {
		return Result{}, err
	}
	return s.ValidatePayload(p)
}

// ValidatePayload runs Validate and the contract check on an already decoded payload.
// Middlewares are not applied.
func (s *Sanitizer) ValidatePayload(p *Payload) (Result, error) {
	clean, diags := Validate(p)
	res := Result{Clean: clean, Diagnostics: diags}
	if s.opts.contractCheck && res.OK() {
		if err := checkContract(s.contract, clean); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}
