package driven

import "context"

// Reachability is the platform network reachability signal.
type Reachability interface {
	// Reachable performs one probe. Implementations should honour ctx
	// but callers do not rely on it: the probe is abandoned on timeout.
	Reachable(ctx context.Context) (bool, error)

	// Watch emits the reachability value each time it changes.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan bool, error)
}
