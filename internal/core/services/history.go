package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// maxIDAttempts bounds regeneration when a fresh ID collides.
const maxIDAttempts = 8

// HistoryService is the sole writer of the scan history.
//
// Mutations run one at a time, in request order, on a single worker
// goroutine. Each mutation computes the next snapshot from the current
// committed one, writes it durably and only then makes it visible.
// A failed write leaves the committed snapshot untouched.
type HistoryService struct {
	persistence driven.PersistenceAdapter
	key         string
	newID       func() string

	ops       chan historyOp
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu       sync.RWMutex
	snapshot domain.HistorySnapshot
	loaded   bool
	subs     *broadcaster[domain.HistorySnapshot]
}

type historyOp struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// HistoryOption configures a HistoryService.
type HistoryOption func(*HistoryService)

// WithHistoryKey sets the persistence key. Defaults to domain.DefaultHistoryKey.
func WithHistoryKey(key string) HistoryOption {
	return func(s *HistoryService) {
		s.key = key
	}
}

// WithIDGenerator replaces the record ID generator.
func WithIDGenerator(gen func() string) HistoryOption {
	return func(s *HistoryService) {
		s.newID = gen
	}
}

// NewHistoryService creates a history service and starts its worker.
// LoadInitial must be called before any mutation.
func NewHistoryService(persistence driven.PersistenceAdapter, opts ...HistoryOption) *HistoryService {
	s := &HistoryService{
		persistence: persistence,
		key:         domain.DefaultHistoryKey,
		newID:       func() string { return uuid.New().String() },
		ops:         make(chan historyOp),
		quit:        make(chan struct{}),
		subs:        newBroadcaster[domain.HistorySnapshot](),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.run()
	return s
}

// Close stops the worker and ends all subscriptions. Mutations requested
// afterwards fail with domain.ErrStoreClosed.
func (s *HistoryService) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.subs.close()
	})
	return nil
}

// LoadInitial reads the persisted history once.
//
// Missing data yields the empty snapshot. Malformed data also yields the
// empty snapshot, together with a *domain.CorruptStateWarning; the store is
// usable in both cases. A failed read returns a *domain.PersistenceError and
// leaves the store unloaded so the history is not overwritten by accident.
// Calling LoadInitial again returns the current snapshot without reading.
func (s *HistoryService) LoadInitial(ctx context.Context) (domain.HistorySnapshot, error) {
	var (
		snapshot domain.HistorySnapshot
		warning  error
	)
	err := s.submit(ctx, func(ctx context.Context) error {
		if s.isLoaded() {
			snapshot = s.Snapshot()
			return nil
		}

		data, err := s.persistence.Read(ctx, s.key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("history: no persisted history at %q", s.key)
		case err != nil:
			return &domain.PersistenceError{Op: "read", Key: s.key, Err: err}
		default:
			decoded, decodeErr := DecodeHistory(data)
			if decodeErr != nil {
				warning = &domain.CorruptStateWarning{Key: s.key, Err: decodeErr}
				logger.Warn("history: %v", warning)
			} else {
				snapshot = decoded
			}
		}

		s.mu.Lock()
		s.snapshot = snapshot
		s.loaded = true
		s.subs.publish(snapshot)
		s.mu.Unlock()

		logger.Debug("history: loaded %d records", snapshot.Len())
		return nil
	})
	if err != nil {
		return domain.HistorySnapshot{}, err
	}
	return snapshot.Clone(), warning
}

// Append classifies rawPayload, records it at the front of the history with
// a fresh ID and createdAt = now, and persists the result.
// createdAt is clamped so it never precedes the newest record.
func (s *HistoryService) Append(ctx context.Context, rawPayload string, now time.Time) (*domain.ScanRecord, error) {
	var record domain.ScanRecord
	err := s.submit(ctx, func(ctx context.Context) error {
		if !s.isLoaded() {
			return domain.ErrStoreNotLoaded
		}
		current := s.current()

		id, err := s.freshID(current)
		if err != nil {
			return err
		}

		createdAt := now.Round(0).UTC()
		if len(current.Records) > 0 && createdAt.Before(current.Records[0].CreatedAt) {
			createdAt = current.Records[0].CreatedAt
		}

		class := Classify(rawPayload)
		record = domain.ScanRecord{
			ID:           id,
			RawPayload:   rawPayload,
			ContentType:  class.ContentType,
			DisplayValue: class.DisplayValue,
			CreatedAt:    createdAt,
		}

		records := make([]domain.ScanRecord, 0, len(current.Records)+1)
		records = append(records, record)
		records = append(records, current.Records...)

		if err := s.commit(ctx, domain.HistorySnapshot{Records: records}); err != nil {
			return err
		}
		logger.Debug("history: appended %s (%s)", record.ID, record.ContentType)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("appending scan: %w", err)
	}
	return &record, nil
}

// Remove deletes the record with the given ID and persists the result.
// An absent ID is not an error: nothing is written and false is returned.
func (s *HistoryService) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.submit(ctx, func(ctx context.Context) error {
		if !s.isLoaded() {
			return domain.ErrStoreNotLoaded
		}
		current := s.current()

		idx := -1
		for i, r := range current.Records {
			if r.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		records := make([]domain.ScanRecord, 0, len(current.Records)-1)
		records = append(records, current.Records[:idx]...)
		records = append(records, current.Records[idx+1:]...)

		if err := s.commit(ctx, domain.HistorySnapshot{Records: records}); err != nil {
			return err
		}
		removed = true
		logger.Debug("history: removed %s", id)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("removing scan: %w", err)
	}
	return removed, nil
}

// Clear empties the history and persists the empty snapshot.
func (s *HistoryService) Clear(ctx context.Context) error {
	err := s.submit(ctx, func(ctx context.Context) error {
		if !s.isLoaded() {
			return domain.ErrStoreNotLoaded
		}
		if err := s.commit(ctx, domain.HistorySnapshot{}); err != nil {
			return err
		}
		logger.Debug("history: cleared")
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the committed history.
func (s *HistoryService) Snapshot() domain.HistorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Get returns a single record by ID.
func (s *HistoryService) Get(id string) (*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.snapshot.Find(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Subscribe delivers the current snapshot, then the full snapshot after
// every committed mutation.
func (s *HistoryService) Subscribe() (<-chan domain.HistorySnapshot, func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subs.subscribe(s.snapshot)
}

// submit queues fn for the worker and waits for its result.
// Once handed to the worker, fn always runs to completion.
func (s *HistoryService) submit(ctx context.Context, fn func(ctx context.Context) error) error {
	op := historyOp{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case s.ops <- op:
	case <-s.quit:
		return domain.ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-op.result
}

// run is the mutation worker.
func (s *HistoryService) run() {
	defer s.wg.Done()
	for {
		select {
		case op := <-s.ops:
			if err := op.ctx.Err(); err != nil {
				op.result <- err
				continue
			}
			op.result <- op.fn(op.ctx)
		case <-s.quit:
			return
		}
	}
}

// commit persists next and then publishes it. Worker only.
func (s *HistoryService) commit(ctx context.Context, next domain.HistorySnapshot) error {
	data, err := EncodeHistory(next)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: s.key, Err: err}
	}
	if err := s.persistence.Write(ctx, s.key, data); err != nil {
		return &domain.PersistenceError{Op: "write", Key: s.key, Err: err}
	}

	s.mu.Lock()
	s.snapshot = next
	s.subs.publish(next)
	s.mu.Unlock()
	return nil
}

// current returns the committed snapshot without copying. Worker only:
// snapshots are never mutated in place, so sharing is safe.
func (s *HistoryService) current() domain.HistorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *HistoryService) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *HistoryService) freshID(current domain.HistorySnapshot) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := current.Find(id); !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique record id", domain.ErrInvalidInput)
}
