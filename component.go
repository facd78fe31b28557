package ecs

import "reflect"

// TypeOf is the component identity token for T, used when building queries.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// AddComponent attaches value to a live entity, replacing any previous value
// of the same type. It fails with ErrEntityNotFound for dead handles and with
// ErrGenerationConflict when a stale handle races a recycled index.
//
// The value is copied; mutate it afterwards through GetComponent.
func AddComponent[T any](world *World, entity Entity, value T) error {
	return world.addBoxed(entity, reflect.TypeFor[T](), &value)
}

// RemoveComponent detaches T from a live entity. Removing a component the
// entity never had, or whose type was never registered, is a no-op success.
func RemoveComponent[T any](world *World, entity Entity) error {
	return world.removeByType(entity, reflect.TypeFor[T]())
}

// HasComponent reports whether GetComponent would return a value.
func HasComponent[T any](world *World, entity Entity) bool {
	return GetComponent[T](world, entity) != nil
}

// GetComponent returns a pointer to the entity's T, or nil when the entity is
// not live, the type was never registered, or the slot's generation mismatches.
// Absence is ordinary control flow, not an error. The pointer is the mutable
// reference; the table borrow is held only for the duration of the call.
func GetComponent[T any](world *World, entity Entity) *T {
	boxed, ok := world.getBoxed(entity, reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	pointer, ok := boxed.(*T)
	if !ok {
		return nil
	}
	return pointer
}

// GetComponentTable takes a shared borrow of T's table for bulk reads,
// creating the table lazily if the type was never written. Release it with
// Done. It fails with ErrTooManyComponentTypes when registering T would
// exceed MaxComponentTypes. Borrowing while an exclusive borrow of the same
// table is outstanding panics with BorrowConflictError.
func GetComponentTable[T any](world *World) (*TableRef, error) {
	table, err := world.componentTableFor(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	table.acquireShared()
	return &TableRef{table: table}, nil
}

// GetComponentTableMut takes the exclusive borrow of T's table for bulk
// writes, creating the table lazily if the type was never written. Release it
// with Done. It fails with ErrTooManyComponentTypes when registering T would
// exceed MaxComponentTypes. Borrowing while any other borrow of the same
// table is outstanding panics with BorrowConflictError.
func GetComponentTableMut[T any](world *World) (*TableMut, error) {
	table, err := world.componentTableFor(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	table.acquireExclusive()
	return &TableMut{table: table}, nil
}

// Get reads the entity's T through an already-borrowed table view. It returns
// nil when the slot is absent, generation-mismatched, or holds another type.
func Get[T any](view TableView, entity Entity) *T {
	boxed, ok := view.GetValue(entity)
	if !ok {
		return nil
	}
	pointer, ok := boxed.(*T)
	if !ok {
		return nil
	}
	return pointer
}

// Put writes a value through an exclusive table view, subject to the same
// stale-handle guard as AddComponent but without the world's liveness check.
func Put[T any](view *TableMut, entity Entity, value T) error {
	return view.Insert(entity, &value)
}
