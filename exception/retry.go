package exception

import (
	"context"
	"math/rand"
	"time"

	"github.com/agenticzero/flowgraph/node"
)

// Retry runs TargetFn up to MaxRetries+1 times, waiting between attempts
// with exponential backoff and jitter. Only errors Matches accepts count
// as retryable; a non-matching error propagates immediately.
type Retry struct {
	node.State

	TargetFn TargetFunc
	Matches  Matcher

	// MaxRetries is the number of retries after the initial attempt.
	// Defaults to 3.
	MaxRetries int
	// RetryDelay is the base delay before the first retry. Defaults to 1s.
	RetryDelay time.Duration
	// BackoffFactor multiplies RetryDelay on each successive retry.
	// Defaults to 2.
	BackoffFactor float64

	rng *rand.Rand // nil uses the package-level source
}

func NewRetry(id, name string, targetFn TargetFunc, matches Matcher) *Retry {
	return &Retry{
		State:         node.NewState(id, name, node.Exception),
		TargetFn:      targetFn,
		Matches:       matches,
		MaxRetries:    3,
		RetryDelay:    time.Second,
		BackoffFactor: 2,
	}
}

func (r *Retry) Prep(ctx context.Context, input any) error {
	if r.MaxRetries <= 0 && r.MaxRetries != 0 {
		r.MaxRetries = 3
	}
	if r.RetryDelay <= 0 {
		r.RetryDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return nil
}

// Exec attempts TargetFn, retrying on matching errors with exponential
// backoff (base * factor^attempt + jitter), capped implicitly by
// MaxRetries rather than a delay ceiling.
func (r *Retry) Exec(ctx context.Context, input any) (any, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		attempts++
		result, err := r.TargetFn(ctx, input)
		if err == nil {
			rec := newRecord(true, false)
			rec.Result = result
			rec.Extras["attempts"] = attempts
			return rec, nil
		}

		lastErr = err
		if r.Matches != nil && !r.Matches(err) {
			return nil, err
		}

		if attempt == r.MaxRetries {
			break
		}

		delay := r.backoff(attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	rec := newRecord(false, true)
	rec.Error = lastErr.Error()
	rec.Extras["attempts"] = attempts
	rec.Extras["max_retries_exceeded"] = true
	rec.Extras["exception_type"] = exceptionType(lastErr)
	return rec, nil
}

func (r *Retry) backoff(attempt int) time.Duration {
	delay := float64(r.RetryDelay)
	for i := 0; i < attempt; i++ {
		delay *= r.BackoffFactor
	}
	jitter := r.jitter(r.RetryDelay)
	return time.Duration(delay) + jitter
}

func (r *Retry) jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if r.rng != nil {
		return time.Duration(r.rng.Int63n(int64(base)))
	}
	return time.Duration(rand.Int63n(int64(base)))
}

func (r *Retry) Post(ctx context.Context, input, result any) (string, error) {
	if rec, ok := result.(Record); ok {
		return rec.routeAction(), nil
	}
	return node.Default, nil
}
