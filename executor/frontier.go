package executor

// workItem is a schedulable (node, input) pair. Items dequeue in the
// order they were enqueued, so two nodes fed from the same predecessor
// dequeue in their outgoing-edge insertion order.
type workItem struct {
	nodeID string
	input  any
}

// frontier is the executor's ready-queue. A heap with a hash-derived key
// would be needed to order concurrently-completing goroutines
// deterministically, but this executor's dispatch loop is single-
// threaded and cooperative: one goroutine drains the queue, so plain
// FIFO insertion order already gives the determinism a scheduler needs,
// and a slice-backed queue is enough.
type frontier struct {
	items []workItem

	totalEnqueued int64
	totalDequeued int64
	peakDepth     int
}

func newFrontier(capacity int) *frontier {
	return &frontier{items: make([]workItem, 0, capacity)}
}

func (f *frontier) enqueue(item workItem) {
	f.items = append(f.items, item)
	f.totalEnqueued++
	if len(f.items) > f.peakDepth {
		f.peakDepth = len(f.items)
	}
}

func (f *frontier) dequeue() (workItem, bool) {
	if len(f.items) == 0 {
		return workItem{}, false
	}
	item := f.items[0]
	f.items = f.items[1:]
	f.totalDequeued++
	return item, true
}

func (f *frontier) len() int { return len(f.items) }
