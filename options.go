package toolguard

// options hold optional Sanitizer settings.
type options struct {
	contractCheck  bool
	maxConcurrency int
	middlewares    []Middleware
}

// Option configures a Sanitizer (e.g. WithContractCheck, WithMaxConcurrency).
type Option func(*options)

// WithContractCheck toggles validation of every accepted Clean against its JSON Schema.
// Enabled by default; a violation is returned as SystemError wrapping ErrContract.
func WithContractCheck(enable bool) Option {
	return func(o *options) {
		o.contractCheck = enable
	}
}

// WithMaxConcurrency limits concurrent validations in SanitizeBatch.
// Pass 0 or negative to disable the limit.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = n
	}
}

// WithMiddleware sets the initial middleware chain (see Sanitizer.Use).
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.middlewares = middlewares
	}
}
