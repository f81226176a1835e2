package emit

// Event is one observability record raised during a run: a node
// starting or finishing, a validation warning, a checkpoint save.
type Event struct {
	// RunID identifies the run that raised this event. Empty for events
	// raised before a run ID exists (e.g. graph-validation warnings
	// emitted ahead of Execute's first dispatch).
	RunID string

	// Step is the dispatch-loop iteration number this event belongs to,
	// 1-indexed. Zero for run-level events that aren't tied to a single
	// node step.
	Step int

	// NodeID is the node that raised this event, empty for run-level
	// events.
	NodeID string

	// Msg is a short, stable label for the event kind ("node_start",
	// "node_end", "checkpoint_saved", "warning", ...), not a sentence.
	Msg string

	// Meta carries event-kind-specific data: duration_ms, error,
	// checkpoint_id, retryable, and similar keys.
	Meta map[string]interface{}
}
