package toolguard

import (
	"context"
	"sync"
)

// Outcome is the result of one input of SanitizeBatch.
type Outcome struct {
	Index  int
	Result Result
	Err    error
}

// Report returns the wire shape of o: an ErrorReport for client errors, a Report otherwise.
// System errors are reported without their internal detail.
func (o Outcome) Report() any {
	if o.Err != nil {
		if IsClientError(o.Err) {
			return ErrorReport{Error: o.Err.Error()}
		}
		return ErrorReport{Error: (&SystemError{}).Error()}
	}
	return o.Result.Report()
}

// SanitizeBatch validates all inputs in parallel, bounded by WithMaxConcurrency, and returns
// one Outcome per input in input order. One failure does not affect the others. When ctx is
// cancelled, inputs that have not started yet get ctx.Err().
func (s *Sanitizer) SanitizeBatch(ctx context.Context, inputs [][]byte) []Outcome {
	out := make([]Outcome, len(inputs))
	if len(inputs) == 0 {
		return out
	}
	var sem chan struct{}
	if s.opts.maxConcurrency > 0 {
		sem = make(chan struct{}, s.opts.maxConcurrency)
	}

	var wg sync.WaitGroup
	for i, raw := range inputs {
		out[i].Index = i
		if err := acquire(ctx, sem); err != nil {
			out[i].Err = err
			continue
		}
		wg.Go(func() {
			defer release(sem)
			out[i].Result, out[i].Err = s.Sanitize(ctx, raw)
		})
	}
	wg.Wait()
	return out
}

func acquire(ctx context.Context, sem chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if sem == nil {
		return nil
	}
	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func release(sem chan struct{}) {
	if sem != nil {
		<-sem
	}
}
