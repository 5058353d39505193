package driven

import "context"

// PersistenceAdapter is a passive durable byte store.
// It holds no business logic; the history service owns the encoding.
type PersistenceAdapter interface {
	// Write durably stores data under key, replacing any previous value.
	// The write is complete when Write returns nil.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the bytes stored under key.
	// Returns domain.ErrNotFound if nothing has been written.
	Read(ctx context.Context, key string) ([]byte, error)
}
