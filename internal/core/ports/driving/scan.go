package driving

import (
	"context"

	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
)

// ScanOrchestrator wires a detection source into the history.
type ScanOrchestrator interface {
	// Start begins a scanning session over source.
	// Returns domain.ErrSessionActive if a session is already running.
	Start(ctx context.Context, source driven.DetectionSource) (ScanSession, error)

	// Stop ends the active session, if any. Safe to call repeatedly.
	Stop()
}

// ScanSession is the cancellation handle of a running scanning session.
type ScanSession interface {
	// Stop unsubscribes from the source. After Stop returns no further
	// record is appended for this session. Idempotent.
	Stop()

	// Done is closed once the session has stopped or its source has ended
	// and every accepted payload has been handled.
	Done() <-chan struct{}
}
