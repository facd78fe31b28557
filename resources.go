package ecs

import "reflect"

// Resources is a type-keyed singleton store used to thread cross-cutting
// state (elapsed time, input, settings) into systems. One value per type;
// adding a type that already exists replaces the previous value. Slot ids are
// recycled through a free list so churn does not grow the backing array.
type Resources struct {
	items   []any
	indices map[reflect.Type]int
	free    []int
}

// Len is the number of stored resources.
func (r *Resources) Len() int {
	return len(r.indices)
}

func (r *Resources) add(resourceType reflect.Type, boxed any) {
	if r.indices == nil {
		r.indices = make(map[reflect.Type]int)
	}
	if id, ok := r.indices[resourceType]; ok {
		r.items[id] = boxed
		return
	}
	var id int
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
		r.items[id] = boxed
	} else {
		r.items = append(r.items, boxed)
		id = len(r.items) - 1
	}
	r.indices[resourceType] = id
}

func (r *Resources) get(resourceType reflect.Type) (any, bool) {
	id, ok := r.indices[resourceType]
	if !ok {
		return nil, false
	}
	return r.items[id], true
}

func (r *Resources) remove(resourceType reflect.Type) {
	id, ok := r.indices[resourceType]
	if !ok {
		return
	}
	delete(r.indices, resourceType)
	r.items[id] = nil
	r.free = append(r.free, id)
}

// AddResource stores value as the singleton for its type, replacing any
// previous value.
func AddResource[T any](resources *Resources, value T) {
	resources.add(reflect.TypeFor[T](), &value)
}

// GetResource returns a pointer to the stored T, or nil if absent. The
// pointer is the mutable reference.
func GetResource[T any](resources *Resources) *T {
	boxed, ok := resources.get(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	pointer, ok := boxed.(*T)
	if !ok {
		return nil
	}
	return pointer
}

// HasResource reports whether a T is stored.
func HasResource[T any](resources *Resources) bool {
	_, ok := resources.get(reflect.TypeFor[T]())
	return ok
}

// RemoveResource drops the stored T, if any.
func RemoveResource[T any](resources *Resources) {
	resources.remove(reflect.TypeFor[T]())
}
