package executor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agenticzero/flowgraph/emit"
	"github.com/agenticzero/flowgraph/store"
)

// Option configures an Executor at construction time via the functional-
// options pattern, so New's signature stays stable as configuration
// knobs are added.
type Option func(*config) error

type config struct {
	maxIterations   int
	queueCapacity   int
	emitter         emit.Emitter
	store           store.Store
	checkpointEvery int
	registry        prometheus.Registerer
	hooks           HookRegistry
}

func defaultConfig() config {
	return config{
		maxIterations:   100,
		queueCapacity:   1024,
		emitter:         emit.NewNullEmitter(),
		checkpointEvery: 5,
	}
}

// WithMaxIterations overrides the default iteration ceiling (100) guarding
// against divergent loops. Breaching it is a warning, not a fatal error.
func WithMaxIterations(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.maxIterations = n
		}
		return nil
	}
}

// WithQueueCapacity sets the initial capacity of the frontier's backing
// slice. The queue is not bounded by it and grows as needed.
func WithQueueCapacity(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.queueCapacity = n
		}
		return nil
	}
}

// WithEmitter installs the structured event sink. Defaults to a no-op
// emitter.
func WithEmitter(e emit.Emitter) Option {
	return func(c *config) error {
		if e != nil {
			c.emitter = e
		}
		return nil
	}
}

// WithStore installs a persistence backend for checkpoints. Without one,
// ExecuteWithCheckpoints still captures snapshots but has nowhere durable
// to put them beyond the callback supplied at call time.
func WithStore(s store.Store) Option {
	return func(c *config) error {
		c.store = s
		return nil
	}
}

// WithCheckpointEvery sets how many successful node executions (repeat
// visits included) elapse between automatic checkpoints. Default 5; 0 disables automatic (non-terminal)
// checkpoints.
func WithCheckpointEvery(n int) Option {
	return func(c *config) error {
		c.checkpointEvery = n
		return nil
	}
}

// WithMetricsRegistry installs a Prometheus registry for the executor's
// queue-depth, step-latency, checkpoint and warning metrics. Without it no
// metrics are registered or recorded.
func WithMetricsRegistry(r prometheus.Registerer) Option {
	return func(c *config) error {
		if r != nil {
			c.registry = r
		}
		return nil
	}
}

// WithHook registers a callback for one of the four lifecycle events:
// before_node, after_node, on_error, on_complete.
func WithHook(event HookEvent, fn HookFunc) Option {
	return func(c *config) error {
		c.hooks.add(event, fn)
		return nil
	}
}
