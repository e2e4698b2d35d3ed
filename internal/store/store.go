// Package store holds the in-memory state of every engine. Each Store exposes
// an immutable Snapshot and a Subscribe hook that fires after every committed
// change; nothing else in the process reads or writes engine state.
package store

import (
	"sync"
)

// Record is the constraint for anything kept in a Store
type Record[T any] interface {
	RecordID() string
	Clone() T
	Validate() error
}

// Change describes one committed Update
type Change[T Record[T]] struct {
	Snapshot Snapshot[T]
	Upserted []T
	Deleted  []string
}

// Listener is called synchronously after each commit. It must not call
// Update on the same store.
type Listener[T Record[T]] func(Change[T])

// Snapshot is an immutable view of a Store at one version
type Snapshot[T Record[T]] struct {
	version uint64
	items   map[string]T
	order   []string
}

func (s Snapshot[T]) Version() uint64 {
	return s.version
}

func (s Snapshot[T]) Len() int {
	return len(s.order)
}

// Get returns a copy of the record with the given id
func (s Snapshot[T]) Get(id string) (T, bool) {
	rec, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return rec.Clone(), true
}

// All returns copies of every record in insertion order
func (s Snapshot[T]) All() []T {
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Filter returns copies of the records matching fn in insertion order
func (s Snapshot[T]) Filter(fn func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range s.order {
		if rec := s.items[id]; fn(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

type Store[T Record[T]] struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	current Snapshot[T]

	listeners map[int]Listener[T]
	nextID    int
}

func New[T Record[T]]() *Store[T] {
	return &Store[T]{
		current:   Snapshot[T]{items: map[string]T{}},
		listeners: map[int]Listener[T]{},
	}
}

// Snapshot returns the current committed state
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn for every future commit
func (s *Store[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Update runs fn against a private copy of the state. If fn returns an error
// the copy is discarded and the store is unchanged; otherwise the copy is
// committed and listeners are notified.
func (s *Store[T]) Update(fn func(tx *Tx[T]) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx := newTx(s.Snapshot())
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}

	s.mu.Lock()
	next := tx.commit(s.current.version + 1)
	s.current = next
	listeners := make([]Listener[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	change := Change[T]{Snapshot: next, Upserted: tx.upserted(), Deleted: tx.deletedIDs()}
	for _, l := range listeners {
		l(change)
	}
	return nil
}

// Replace swaps the whole state for records, dropping any that fail
// validation. It is a load, not a change, so listeners are not notified.
// It returns the number of dropped records.
func (s *Store[T]) Replace(records []T) int {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := Snapshot[T]{items: make(map[string]T, len(records))}
	dropped := 0
	for _, rec := range records {
		id := rec.RecordID()
		if id == "" || rec.Validate() != nil {
			dropped++
			continue
		}
		if _, dup := next.items[id]; !dup {
			next.order = append(next.order, id)
		}
		next.items[id] = rec.Clone()
	}

	s.mu.Lock()
	next.version = s.current.version + 1
	s.current = next
	s.mu.Unlock()
	return dropped
}
