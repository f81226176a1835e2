// Package emit delivers observability events out of the executor's
// dispatch loop, for anything from a stdout tracer to a span exporter.
package emit

import "context"

// Emitter receives the events the executor raises as it steps through a
// graph (node start/complete, warnings, checkpoint saves). Implementations
// must not block the run: slow or unavailable backends should buffer,
// drop with internal logging, or hand off asynchronously rather than
// stall the caller.
type Emitter interface {
	// Emit handles a single event. Must not panic; log errors internally
	// instead of propagating them, since the executor does not check
	// Emit's outcome.
	Emit(event Event)

	// EmitBatch handles events together, in the order given. Exists for
	// backends where per-event overhead dominates (network round-trips,
	// bulk inserts); callers may always fall back to calling Emit in a
	// loop. Returns an error only for backend-level failures, not
	// individual event drops.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush blocks until every buffered event has been handed to the
	// backend, or ctx is done. Safe to call more than once.
	Flush(ctx context.Context) error
}
