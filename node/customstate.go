package node

// CustomStater is implemented by node flavors that carry state beyond the
// common status/result/error/input slots and need it captured in a
// snapshot — AI nodes save their conversation history, Retry nodes save
// their attempt count, CircuitBreaker nodes save their state, counters,
// and last-failure timestamp. The executor type-asserts for this
// interface when building a snapshot's per-node custom state bag; a
// node that doesn't implement it simply contributes no custom state.
//
// CustomState must return only JSON-representable values. A node whose
// state is not portable should omit the non-serializable parts rather
// than implementing this interface at all.
type CustomStater interface {
	CustomState() map[string]any
	RestoreCustomState(state map[string]any)
}

var _ CustomStater = (*conversation)(nil)

// StateRestorer is implemented by every State-embedding node (promoted
// from State itself) and lets the executor restore the common
// status/result/input slots on resume without reflecting into each
// concrete node type.
type StateRestorer interface {
	RestoreState(status Status, result, input any)
}

var _ StateRestorer = (*State)(nil)
