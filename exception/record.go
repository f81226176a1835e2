// Package exception implements the four specialized exception-handling
// node flavors: TryCatch, Retry, Timeout, and CircuitBreaker. All four
// wrap a target function with a recovery policy and report a failure they
// handle through Record's Success/Handled fields rather than a Go error.
// Exec returns a Go error only for failures the operator does not handle:
// an error its Matcher rejects, a failing CatchFn, a cancelled context
// during Retry's backoff, and, for Timeout, an error the target returns
// before the deadline (or any target error when TimeoutSeconds <= 0).
package exception

import "github.com/agenticzero/flowgraph/node"

// Record is the uniform result shape every exception operator's Exec
// produces.
type Record struct {
	Success bool
	Result  any
	Error   string
	Handled bool

	// Extras carries operator-specific additional fields (attempts,
	// timeout, next_action, exception_type, ...) so each operator's
	// tests and downstream Branch predicates can read them without a
	// type switch over four different result structs.
	Extras map[string]any
}

func newRecord(success, handled bool) Record {
	return Record{Success: success, Handled: handled, Extras: map[string]any{}}
}

// routeAction is the Post-level routing every exception operator shares:
// a successful record takes the default successor, a failed (but
// handled) one routes to an "error" edge if the graph has one.
func (r Record) routeAction() string {
	if r.Success {
		return node.Default
	}
	return node.ErrorAction
}
