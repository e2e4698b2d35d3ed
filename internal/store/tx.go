package store

import "sort"

// Tx is a private, mutable copy of a store used inside Update
type Tx[T Record[T]] struct {
	base       Snapshot[T]
	items      map[string]T
	order      []string
	touched    map[string]bool
	touchOrder []string
	deleted    map[string]bool
}

func newTx[T Record[T]](base Snapshot[T]) *Tx[T] {
	items := make(map[string]T, len(base.items))
	for id, rec := range base.items {
		items[id] = rec
	}
	return &Tx[T]{
		base:    base,
		items:   items,
		order:   append([]string(nil), base.order...),
		touched: map[string]bool{},
		deleted: map[string]bool{},
	}
}

// Get returns a copy of the record as seen by this transaction
func (tx *Tx[T]) Get(id string) (T, bool) {
	rec, ok := tx.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return rec.Clone(), true
}

func (tx *Tx[T]) Has(id string) bool {
	_, ok := tx.items[id]
	return ok
}

// All returns copies of every record in insertion order
func (tx *Tx[T]) All() []T {
	out := make([]T, 0, len(tx.order))
	for _, id := range tx.order {
		out = append(out, tx.items[id].Clone())
	}
	return out
}

// Put validates and stores rec, inserting it when new
func (tx *Tx[T]) Put(rec T) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	id := rec.RecordID()
	if _, ok := tx.items[id]; !ok {
		tx.order = append(tx.order, id)
	}
	tx.items[id] = rec.Clone()
	delete(tx.deleted, id)
	tx.touch(id)
	return nil
}

// Delete removes id; it reports whether the record existed
func (tx *Tx[T]) Delete(id string) bool {
	if _, ok := tx.items[id]; !ok {
		return false
	}
	delete(tx.items, id)
	for i, v := range tx.order {
		if v == id {
			tx.order = append(tx.order[:i:i], tx.order[i+1:]...)
			break
		}
	}
	delete(tx.touched, id)
	tx.deleted[id] = true
	return true
}

func (tx *Tx[T]) touch(id string) {
	if !tx.touched[id] {
		tx.touched[id] = true
		tx.touchOrder = append(tx.touchOrder, id)
	}
}

func (tx *Tx[T]) dirty() bool {
	return len(tx.touched) > 0 || len(tx.deleted) > 0
}

func (tx *Tx[T]) commit(version uint64) Snapshot[T] {
	return Snapshot[T]{version: version, items: tx.items, order: tx.order}
}

func (tx *Tx[T]) upserted() []T {
	out := make([]T, 0, len(tx.touched))
	for _, id := range tx.touchOrder {
		if tx.touched[id] {
			out = append(out, tx.items[id].Clone())
		}
	}
	return out
}

func (tx *Tx[T]) deletedIDs() []string {
	out := make([]string, 0, len(tx.deleted))
	for id := range tx.deleted {
		if _, existed := tx.base.items[id]; existed {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
