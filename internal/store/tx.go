package store

import (
	"slices"
	"time"

	"alumni-connect-backend/internal/domain"
)

// Tx is the view of one store inside a critical section. Reads see the
// transaction's own writes. The first write copies the collection, so an
// aborted transaction leaves the store untouched.
type Tx[T any] struct {
	s      *Store[T]
	items  []T
	copied bool
	dirty  bool
	now    time.Time
}

// Now is the time the critical section started.
func (tx *Tx[T]) Now() time.Time {
	return tx.now
}

func (tx *Tx[T]) id(v *T) string {
	return *tx.s.schema.ID(v)
}

func (tx *Tx[T]) position(id string) int {
	for i := range tx.items {
		if tx.id(&tx.items[i]) == id {
			return i
		}
	}
	return -1
}

func (tx *Tx[T]) writable() {
	if !tx.copied {
		tx.items = slices.Clone(tx.items)
		tx.copied = true
	}
	tx.dirty = true
}

// All returns a copy of the collection in insertion order.
func (tx *Tx[T]) All() []T {
	out := make([]T, len(tx.items))
	for i, v := range tx.items {
		out[i] = tx.s.clone(v)
	}
	return out
}

// Get returns the record with the given id.
func (tx *Tx[T]) Get(id string) (T, bool) {
	if i := tx.position(id); i >= 0 {
		return tx.s.clone(tx.items[i]), true
	}
	var zero T
	return zero, false
}

// Find returns the first record matching pred.
func (tx *Tx[T]) Find(pred func(T) bool) (T, bool) {
	for _, v := range tx.items {
		if pred(v) {
			return tx.s.clone(v), true
		}
	}
	var zero T
	return zero, false
}

// Filter returns the records matching pred in insertion order.
func (tx *Tx[T]) Filter(pred func(T) bool) []T {
	var out []T
	for _, v := range tx.items {
		if pred(v) {
			out = append(out, tx.s.clone(v))
		}
	}
	return out
}

// Count returns the number of records.
func (tx *Tx[T]) Count() int {
	return len(tx.items)
}

// Create assigns an id when v has none, fills defaults and appends the record.
func (tx *Tx[T]) Create(v T) (T, error) {
	schema := tx.s.schema
	v = tx.s.clone(v)

	id := schema.ID(&v)
	if *id == "" {
		*id = tx.s.opts.NewID(schema.Prefix)
	} else if tx.position(*id) >= 0 {
		var zero T
		return zero, domain.Violation(schema.Name, "id", "duplicate id "+*id)
	}
	if schema.Defaults != nil {
		schema.Defaults(&v, tx.now)
	}
	if schema.Derive != nil {
		schema.Derive(&v)
	}

	tx.writable()
	tx.items = append(tx.items, v)
	return tx.s.clone(v), nil
}

// Update applies mutate to a copy of the record and stores the result.
func (tx *Tx[T]) Update(id string, mutate func(*T) error) (T, error) {
	var zero T
	schema := tx.s.schema

	i := tx.position(id)
	if i < 0 {
		return zero, domain.NotFound(schema.Name, id)
	}
	v := tx.s.clone(tx.items[i])
	if err := mutate(&v); err != nil {
		return zero, err
	}
	*schema.ID(&v) = id
	if schema.Touch != nil {
		schema.Touch(&v, tx.now)
	}
	if schema.Derive != nil {
		schema.Derive(&v)
	}

	tx.writable()
	tx.items[i] = v
	return tx.s.clone(v), nil
}

// Delete removes the record and reports whether one was removed.
func (tx *Tx[T]) Delete(id string) bool {
	i := tx.position(id)
	if i < 0 {
		return false
	}
	tx.writable()
	tx.items = slices.Delete(tx.items, i, i+1)
	return true
}

// DeleteWhere removes every record matching pred and returns how many went.
func (tx *Tx[T]) DeleteWhere(pred func(T) bool) int {
	n := 0
	for _, v := range tx.items {
		if pred(v) {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	tx.writable()
	tx.items = slices.DeleteFunc(tx.items, pred)
	return n
}
