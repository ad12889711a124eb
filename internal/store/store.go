// Package store holds the authoritative in-memory collection of one entity
// kind and mirrors it, as a full JSON array, to a storage.Mirror after every
// committed mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/snapshot"
	"alumni-connect-backend/internal/storage"
)

// Schema describes how a store handles one entity kind.
type Schema[T any] struct {
	// Name is the entity kind, used as the baseline snapshot section and in logs.
	Name string
	// File is the mirror key the collection is written under.
	File string
	// Prefix is prepended to generated ids.
	Prefix string
	// ID returns a pointer to the record's id field.
	ID func(*T) *string

	// Defaults fills required fields of a record being created.
	Defaults func(v *T, now time.Time)
	// Touch stamps a record being updated.
	Touch func(v *T, now time.Time)
	// Derive recomputes derived fields. It runs on every write and on load.
	Derive func(v *T)
	// Clone deep-copies records that carry slices or maps.
	Clone func(T) T
}

// Options are shared by every store of a process.
type Options struct {
	Mirror   storage.Mirror
	Snapshot *snapshot.Loader
	Clock    func() time.Time
	NewID    func(prefix string) string
}

// NewID returns "<prefix>_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// PersistState reports the health of a store's mirror. Dirty stays set after a
// failed write until a later write succeeds.
type PersistState struct {
	Dirty       bool      `json:"dirty"`
	LastError   string    `json:"lastError,omitempty"`
	LastWriteAt time.Time `json:"lastWriteAt,omitempty"`
	Writes      int       `json:"writes"`
	Failures    int       `json:"failures"`
}

// Info is the type-independent view of a store.
type Info interface {
	Name() string
	Count() int
	PersistState() PersistState
}

var nextRank atomic.Uint64

// Store is the collection of one entity kind. Reads run under a shared lock;
// mutations, including the mirror write, are serialized under the exclusive lock.
type Store[T any] struct {
	schema Schema[T]
	opts   Options
	rank   uint64

	loadOnce sync.Once

	mu      sync.RWMutex
	items   []T
	index   map[string]int
	persist PersistState
}

// New creates a store. The collection is loaded on first access.
func New[T any](schema Schema[T], opts Options) *Store[T] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	if schema.File == "" {
		schema.File = schema.Name + ".json"
	}
	return &Store[T]{
		schema: schema,
		opts:   opts,
		rank:   nextRank.Add(1),
	}
}

// Name returns the entity kind.
func (s *Store[T]) Name() string {
	return s.schema.Name
}

func (s *Store[T]) load() {
	s.loadOnce.Do(func() {
		items, source := s.readInitial()
		for i := range items {
			if s.schema.Derive != nil {
				s.schema.Derive(&items[i])
			}
		}
		s.mu.Lock()
		s.items = items
		s.reindex()
		s.mu.Unlock()
		logger.Info("Store loaded", "store", s.schema.Name, "source", source, "records", len(items))
	})
}

func (s *Store[T]) readInitial() ([]T, string) {
	if s.opts.Mirror != nil {
		data, err := s.opts.Mirror.Read(context.Background(), s.schema.File)
		switch {
		case err == nil:
			var items []T
			if err := json.Unmarshal(data, &items); err != nil {
				logger.Error("Mirror file is corrupt, store starts empty",
					"store", s.schema.Name, "key", s.schema.File, "error", err)
				return nil, "corrupt-mirror"
			}
			return items, "mirror"
		case errors.Is(err, storage.ErrNotExist):
		default:
			logger.Error("Failed to read mirror file, store starts empty",
				"store", s.schema.Name, "key", s.schema.File, "error", err)
			return nil, "unreadable-mirror"
		}
	}
	return snapshot.Load[T](s.opts.Snapshot, s.schema.Name), "snapshot"
}

// reindex rebuilds the id index. Caller holds the write lock.
func (s *Store[T]) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i := range s.items {
		s.index[*s.schema.ID(&s.items[i])] = i
	}
}

func (s *Store[T]) clone(v T) T {
	if s.schema.Clone != nil {
		return s.schema.Clone(v)
	}
	return v
}

// All returns a copy of the collection in insertion order.
func (s *Store[T]) All() []T {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[i] = s.clone(v)
	}
	return out
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(s.items[i]), true
}

// Find returns the first record matching pred.
func (s *Store[T]) Find(pred func(T) bool) (T, bool) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.items {
		if pred(v) {
			return s.clone(v), true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the records matching pred in insertion order.
func (s *Store[T]) Filter(pred func(T) bool) []T {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, v := range s.items {
		if pred(v) {
			out = append(out, s.clone(v))
		}
	}
	return out
}

// Count returns the number of records.
func (s *Store[T]) Count() int {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// PersistState returns the mirror health of the store.
func (s *Store[T]) PersistState() PersistState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist
}

// Create assigns an id when v has none, fills defaults, appends the record and
// rewrites the mirror. A duplicate id is a constraint violation.
func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := s.Atomically(ctx, func(tx *Tx[T]) error {
		var err error
		out, err = tx.Create(v)
		return err
	})
	return out, err
}

// Update applies mutate to a copy of the record and stores the result. The id
// cannot be changed. A mutate error aborts the update with nothing written.
func (s *Store[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var out T
	err := s.Atomically(ctx, func(tx *Tx[T]) error {
		var err error
		out, err = tx.Update(id, mutate)
		return err
	})
	return out, err
}

// Delete removes the record and reports whether one was removed.
func (s *Store[T]) Delete(ctx context.Context, id string) bool {
	var removed bool
	_ = s.Atomically(ctx, func(tx *Tx[T]) error {
		removed = tx.Delete(id)
		return nil
	})
	return removed
}

// Atomically runs fn as one critical section on the store. Changes made through
// tx are committed, and the mirror rewritten once, only when fn returns nil.
func (s *Store[T]) Atomically(ctx context.Context, fn func(tx *Tx[T]) error) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.begin()
	if err := fn(tx); err != nil {
		return err
	}
	s.commit(ctx, tx)
	return nil
}

// Atomically2 runs fn as one critical section spanning two stores. Locks are
// taken in store creation order so concurrent callers cannot deadlock. Neither
// store changes unless fn returns nil.
func Atomically2[A, B any](ctx context.Context, a *Store[A], b *Store[B], fn func(ta *Tx[A], tb *Tx[B]) error) error {
	if a.rank == b.rank {
		return fmt.Errorf("atomically2: %s passed twice", a.schema.Name)
	}
	a.load()
	b.load()

	first, second := sync.Locker(&a.mu), sync.Locker(&b.mu)
	if b.rank < a.rank {
		first, second = second, first
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	ta, tb := a.begin(), b.begin()
	if err := fn(ta, tb); err != nil {
		return err
	}
	a.commit(ctx, ta)
	b.commit(ctx, tb)
	return nil
}

func (s *Store[T]) begin() *Tx[T] {
	return &Tx[T]{s: s, items: s.items, now: s.opts.Clock()}
}

// commit installs the transaction's working copy. Caller holds the write lock.
func (s *Store[T]) commit(ctx context.Context, tx *Tx[T]) {
	if !tx.dirty {
		return
	}
	s.items = tx.items
	s.reindex()
	s.write(ctx)
}

// write rewrites the whole collection to the mirror. A failure is recorded and
// logged, never returned: the in-memory collection stays authoritative.
func (s *Store[T]) write(ctx context.Context) {
	if s.opts.Mirror == nil {
		return
	}
	key := s.schema.File
	logger.StoreWrite(s.schema.Name, key, len(s.items))

	items := s.items
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err == nil {
		err = s.opts.Mirror.Write(context.WithoutCancel(ctx), key, data)
	}
	logger.StoreResult(s.schema.Name, key, len(data), err)

	if err != nil {
		s.persist.Dirty = true
		s.persist.LastError = fmt.Errorf("%w: %v", domain.ErrPersistence, err).Error()
		s.persist.Failures++
		return
	}
	s.persist.Dirty = false
	s.persist.LastError = ""
	s.persist.LastWriteAt = s.opts.Clock()
	s.persist.Writes++
}
