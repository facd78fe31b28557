package ecs

import (
	"github.com/rotisserie/eris"
)

// Slot is one storage cell of a Table: a value tagged with the generation of
// the handle that wrote it. The zero Slot is empty.
type Slot[T any] struct {
	value      T
	generation uint64
	occupied   bool
}

func (s Slot[T]) Occupied() bool {
	return s.occupied
}

func (s Slot[T]) Generation() uint64 {
	return s.generation
}

func (s Slot[T]) Value() T {
	return s.value
}

// Table is a growable sparse array keyed by entity handles. Positions beyond
// its current length are absent, never an error: the backing array grows
// lazily on the first write to a higher index, so a table may well be shorter
// than the number of live entities.
type Table[T any] struct {
	slots []Slot[T]
}

// Insert stores value at the handle's index, growing the table as needed.
// A stale handle (older generation than the slot's occupant) is rejected with
// ErrGenerationConflict and leaves the occupant intact.
func (t *Table[T]) Insert(entity Entity, value T) error {
	for len(t.slots) <= entity.Index {
		t.slots = append(t.slots, Slot[T]{})
	}

	slot := &t.slots[entity.Index]
	if slot.occupied && slot.generation > entity.Generation {
		return eris.Wrapf(ErrGenerationConflict,
			"insert at index %d: stored generation %d is newer than handle generation %d",
			entity.Index, slot.generation, entity.Generation)
	}

	*slot = Slot[T]{value: value, generation: entity.Generation, occupied: true}
	return nil
}

// Remove clears the slot at the handle's index. The slot is left untouched
// when the stored generation is newer than the handle's, so a stale handle
// cannot wipe a recycled entity's value. Reports whether a value was cleared.
func (t *Table[T]) Remove(entity Entity) bool {
	if entity.Index < 0 || entity.Index >= len(t.slots) {
		return false
	}
	slot := &t.slots[entity.Index]
	if !slot.occupied || slot.generation > entity.Generation {
		return false
	}
	*slot = Slot[T]{}
	return true
}

// Get returns the value stored for the handle. Absence (out of range, empty
// slot, or generation mismatch) is a normal outcome, never an error.
func (t *Table[T]) Get(entity Entity) (T, bool) {
	var zero T
	if entity.Index < 0 || entity.Index >= len(t.slots) {
		return zero, false
	}
	slot := t.slots[entity.Index]
	if !slot.occupied || slot.generation != entity.Generation {
		return zero, false
	}
	return slot.value, true
}

// Len is the current length of the backing array, including empty slots.
func (t *Table[T]) Len() int {
	return len(t.slots)
}

// Slots exposes the raw slot array in index order, including empty positions,
// so callers can pair positions across tables of different lengths.
func (t *Table[T]) Slots() []Slot[T] {
	return t.slots
}
