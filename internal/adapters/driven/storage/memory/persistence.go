package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
)

// Ensure Persistence implements the interface.
var _ driven.PersistenceAdapter = (*Persistence)(nil)

// Persistence is an in-memory implementation of driven.PersistenceAdapter.
// Data lives for the lifetime of the process.
type Persistence struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewPersistence creates a new in-memory persistence adapter.
func NewPersistence() *Persistence {
	return &Persistence{
		values: make(map[string][]byte),
	}
}

// Write replaces the value stored under key.
func (p *Persistence) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = append([]byte(nil), data...)
	return nil
}

// Read returns the value stored under key, or domain.ErrNotFound.
func (p *Persistence) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.values[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

// Path returns the storage location.
func (p *Persistence) Path() string {
	return ":memory:"
}
