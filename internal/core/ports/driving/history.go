package driving

import (
	"context"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

// HistoryService exposes the scan history to consumers.
// Records are only appended by a scan session; consumers may read,
// remove and clear.
type HistoryService interface {
	// Snapshot returns the current committed history.
	Snapshot() domain.HistorySnapshot

	// Get returns a single record by ID.
	// Returns domain.ErrNotFound if no such record exists.
	Get(id string) (*domain.ScanRecord, error)

	// Remove deletes a record and persists the result.
	// Returns false without error if the ID is absent.
	Remove(ctx context.Context, id string) (bool, error)

	// Clear empties the history and persists the empty snapshot.
	Clear(ctx context.Context) error

	// Subscribe delivers the current snapshot, then the full snapshot after
	// every committed mutation. The returned func unsubscribes.
	Subscribe() (<-chan domain.HistorySnapshot, func())
}
