package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

// Provider decodes one file format's embedded metadata.
type Provider interface {
	// Kind is the short format label used in field values and error messages (e.g. "PDF").
	Kind() string
	// Extract returns the field mapping for path or an error describing why it could not.
	Extract(ctx context.Context, path string) (*types.Fields, error)
}

// Extractor routes files to providers and guarantees the capability contract:
// extraction never fails the caller, a failure comes back as {"Error": cause}.
type Extractor struct {
	providers map[string]Provider
	timeout   time.Duration
}

func New(timeout time.Duration) *Extractor {
	return NewWithProviders(DefaultProviders(), timeout)
}

// NewWithProviders builds an Extractor over an explicit extension table.
// Keys are lowercase extensions including the dot.
func NewWithProviders(providers map[string]Provider, timeout time.Duration) *Extractor {
	return &Extractor{providers: providers, timeout: timeout}
}

// Extract runs p against path. Provider errors, panics and timeouts become an
// Error-only mapping.
func (e *Extractor) Extract(ctx context.Context, p Provider, path string) *types.Fields {
	if err := ctx.Err(); err != nil {
		return e.failure(p, err)
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type result struct {
		fields *types.Fields
		err    error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		fields, err := p.Extract(ctx, path)
		done <- result{fields: fields, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return e.failure(p, r.err)
		}
		if r.fields == nil {
			return e.failure(p, errors.New("no metadata returned"))
		}
		return r.fields
	case <-ctx.Done():
		return e.failure(p, ctx.Err())
	}
}

func (e *Extractor) failure(p Provider, err error) *types.Fields {
	if e.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s", e.timeout)
	}
	return types.ErrorFields(fmt.Sprintf("Could not process %s: %v", p.Kind(), err))
}
