package node

// Reserved post-return sentinels. Any other string a node's Post returns
// is treated as a literal edge action label. These are the only values
// the executor ever type-switches on; concrete node categories
// (Branch, Fork, Join, Merge, ...) are otherwise invisible to it.
const (
	// Default means "take the default outgoing edge" — the zero value of
	// Post's return already means this, so Default is rarely returned
	// explicitly, but exists for readability at call sites.
	Default = ""

	// Fork activates every outgoing edge with the same result payload.
	Fork = "__fork__"

	// Waiting marks a node as buffering; the executor must not enqueue
	// its successors yet.
	Waiting = "__waiting__"

	// Exit halts traversal of the current branch immediately without
	// stopping already-queued branches elsewhere in the graph.
	Exit = "__exit__"

	// ErrorAction routes to an edge labeled "error" if present, else lets
	// the error propagate out of the executor.
	ErrorAction = "error"
)

// ForkEnvelope is the Exec-result shape a Fork control node returns. The
// executor's dispatch logic recognizes it by the __fork__ key and enqueues
// every outgoing edge with Data as the payload.
type ForkEnvelope struct {
	Fork  bool
	Count int
	Data  any
}

// WaitingEnvelope is the Exec-result shape a buffering control node
// (Merge, Join) returns while incomplete. The executor recognizes it by
// the __waiting__ key and does not enqueue successors.
type WaitingEnvelope struct {
	Waiting   bool
	Collected int
}

// ActionEnvelope is the {action, data} shape Branch and similar control
// nodes return: action selects the outgoing edge, data is the payload
// forwarded to whichever successor is chosen.
type ActionEnvelope struct {
	Action string
	Data   any
}
