package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds every Complete call, retries included, by d.
// A deadline hit is reported as ErrProviderUnavailable.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Complete(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		var unavailable *ErrProviderUnavailable
		if !errors.As(err, &unavailable) {
			err = &ErrProviderUnavailable{Err: fmt.Errorf("timed out after %s: %w", t.timeout, err)}
		}
	}
	return resp, err
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
