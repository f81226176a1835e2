package exception

import (
	"context"
	"sync"
	"time"

	"github.com/agenticzero/flowgraph/node"
)

// BreakerState is a CircuitBreaker's machine state.
type BreakerState string

const (
	Closed   BreakerState = "CLOSED"
	Open     BreakerState = "OPEN"
	HalfOpen BreakerState = "HALF_OPEN"
)

// CircuitBreaker wraps TargetFn with a three-state breaker: CLOSED calls
// through normally; after FailureThreshold consecutive failures it trips
// to OPEN and short-circuits every call until TimeoutSeconds elapses,
// at which point the next call is let through as a HALF_OPEN probe —
// SuccessThreshold consecutive probe successes close the breaker again,
// any probe failure reopens it. State persists across invocations of the
// same node instance, which is why it implements node.CustomStater: a
// resumed run must not forget it was mid-trip.
type CircuitBreaker struct {
	node.State

	TargetFn TargetFunc
	Matches  Matcher

	FailureThreshold int
	SuccessThreshold int
	TimeoutSeconds   float64

	mu              sync.Mutex
	breakerState    BreakerState
	consecFailures  int
	consecSuccesses int
	openedAt        time.Time
}

func NewCircuitBreaker(id, name string, targetFn TargetFunc, matches Matcher) *CircuitBreaker {
	return &CircuitBreaker{
		State:            node.NewState(id, name, node.Exception),
		TargetFn:         targetFn,
		Matches:          matches,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		TimeoutSeconds:   60,
		breakerState:     Closed,
	}
}

func (c *CircuitBreaker) Prep(ctx context.Context, input any) error {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 2
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	if c.breakerState == "" {
		c.breakerState = Closed
	}
	return nil
}

func (c *CircuitBreaker) Exec(ctx context.Context, input any) (any, error) {
	c.mu.Lock()
	state := c.breakerState
	if state == Open {
		if time.Since(c.openedAt) >= time.Duration(c.TimeoutSeconds*float64(time.Second)) {
			state = HalfOpen
			c.breakerState = HalfOpen
		}
	}

	if state == Open {
		c.mu.Unlock()
		rec := newRecord(false, true)
		rec.Error = "Circuit breaker is OPEN"
		rec.Extras["state"] = string(Open)
		rec.Extras["next_action"] = "circuit_open"
		return rec, nil
	}
	c.mu.Unlock()

	result, err := c.TargetFn(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.onSuccess()
		rec := newRecord(true, false)
		rec.Result = result
		rec.Extras["state"] = string(c.breakerState)
		return rec, nil
	}

	if c.Matches != nil && !c.Matches(err) {
		return nil, err
	}

	c.onFailure()
	rec := newRecord(false, true)
	rec.Error = err.Error()
	rec.Extras["state"] = string(c.breakerState)
	rec.Extras["exception_type"] = exceptionType(err)
	return rec, nil
}

// onSuccess must be called with mu held.
func (c *CircuitBreaker) onSuccess() {
	switch c.breakerState {
	case HalfOpen:
		c.consecSuccesses++
		if c.consecSuccesses >= c.SuccessThreshold {
			c.breakerState = Closed
			c.consecFailures = 0
			c.consecSuccesses = 0
		}
	default:
		c.consecFailures = 0
	}
}

// onFailure must be called with mu held.
func (c *CircuitBreaker) onFailure() {
	switch c.breakerState {
	case HalfOpen:
		c.breakerState = Open
		c.openedAt = time.Now()
		c.consecSuccesses = 0
	default:
		c.consecFailures++
		if c.consecFailures >= c.FailureThreshold {
			c.breakerState = Open
			c.openedAt = time.Now()
		}
	}
}

func (c *CircuitBreaker) Post(ctx context.Context, input, result any) (string, error) {
	if rec, ok := result.(Record); ok {
		return rec.routeAction(), nil
	}
	return node.Default, nil
}

// CustomState captures the breaker's machine state for snapshotting.
func (c *CircuitBreaker) CustomState() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]any{
		"breaker_state":       string(c.breakerState),
		"consec_failures":     c.consecFailures,
		"consec_successes":    c.consecSuccesses,
		"opened_at_unix_nano": c.openedAt.UnixNano(),
	}
}

// RestoreCustomState reinstates a previously captured breaker state.
func (c *CircuitBreaker) RestoreCustomState(state map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Numbers arrive as int/int64 from an in-memory snapshot and as
	// float64 after a JSON round trip.
	num := func(v any) (int64, bool) {
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			return int64(n), true
		}
		return 0, false
	}
	if v, ok := state["breaker_state"].(string); ok {
		c.breakerState = BreakerState(v)
	}
	if v, ok := num(state["consec_failures"]); ok {
		c.consecFailures = int(v)
	}
	if v, ok := num(state["consec_successes"]); ok {
		c.consecSuccesses = int(v)
	}
	if v, ok := num(state["opened_at_unix_nano"]); ok {
		c.openedAt = time.Unix(0, v)
	}
}

var _ node.CustomStater = (*CircuitBreaker)(nil)
