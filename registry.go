package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// MaxComponentTypes caps how many distinct component types one world can
// register. It tracks the query mask's bit width so every registered row
// fits in a presence mask.
const MaxComponentTypes = mask.MaxBits

// componentTable is one component type's generational slot storage plus its
// runtime borrow state. Values are stored type-erased as *T behind any;
// retrieval by the wrong type yields absence, never a crash.
type componentTable struct {
	Table[any]
	componentType reflect.Type
	row           uint32

	// borrow counts outstanding shared views; borrowExclusive marks a single
	// outstanding exclusive view. Violations panic with BorrowConflictError.
	borrow          int
	borrowExclusive bool
}

func (ct *componentTable) acquireShared() {
	if ct.borrowExclusive {
		panic(BorrowConflictError{ComponentType: ct.componentType})
	}
	ct.borrow++
}

func (ct *componentTable) releaseShared() {
	ct.borrow--
}

func (ct *componentTable) acquireExclusive() {
	if ct.borrowExclusive || ct.borrow > 0 {
		panic(BorrowConflictError{ComponentType: ct.componentType, Exclusive: true})
	}
	ct.borrowExclusive = true
}

func (ct *componentTable) releaseExclusive() {
	ct.borrowExclusive = false
}

// registry maps component type identity to a dense row id and that row's
// table. Tables are created lazily on the first write for their type.
type registry struct {
	rows    map[reflect.Type]uint32
	tables  *intmap.Map[uint32, *componentTable]
	nextRow uint32
}

func newRegistry() registry {
	return registry{
		rows:   make(map[reflect.Type]uint32),
		tables: intmap.New[uint32, *componentTable](16),
	}
}

// rowFor returns the dense row id for a component type, registering the type
// on first sight.
func (r *registry) rowFor(componentType reflect.Type) (uint32, error) {
	if row, ok := r.rows[componentType]; ok {
		return row, nil
	}
	if r.nextRow >= MaxComponentTypes {
		return 0, eris.Wrapf(ErrTooManyComponentTypes, "registering %v (limit %d)", componentType, MaxComponentTypes)
	}
	row := r.nextRow
	r.nextRow++
	r.rows[componentType] = row
	return row, nil
}

// lookup finds an existing table without creating one.
func (r *registry) lookup(componentType reflect.Type) (*componentTable, bool) {
	row, ok := r.rows[componentType]
	if !ok {
		return nil, false
	}
	return r.tables.Get(row)
}

// tableFor returns the component type's table, creating it lazily.
func (r *registry) tableFor(componentType reflect.Type) (*componentTable, error) {
	row, err := r.rowFor(componentType)
	if err != nil {
		return nil, err
	}
	if table, ok := r.tables.Get(row); ok {
		return table, nil
	}
	table := &componentTable{componentType: componentType, row: row}
	r.tables.Put(row, table)
	return table, nil
}

var (
	_ TableView = &TableRef{}
	_ TableView = &TableMut{}
)

// TableRef is a shared borrow of one component table. Any number of shared
// borrows of the same table may coexist, but none while an exclusive borrow
// is outstanding. Call Done to release it.
type TableRef struct {
	table *componentTable
}

func (v *TableRef) Len() int {
	return v.table.Len()
}

func (v *TableRef) ComponentType() reflect.Type {
	return v.table.componentType
}

func (v *TableRef) slot(index int) (any, uint64, bool) {
	s := v.table.slots[index]
	return s.value, s.generation, s.occupied
}

// GetValue returns the type-erased payload stored for the handle.
func (v *TableRef) GetValue(entity Entity) (any, bool) {
	return v.table.Get(entity)
}

// Done releases the borrow. The view must not be used afterwards.
func (v *TableRef) Done() {
	v.table.releaseShared()
}

// TableMut is an exclusive borrow of one component table: it excludes every
// other borrow, shared or exclusive, of the same table. Call Done to release.
type TableMut struct {
	table *componentTable
}

func (v *TableMut) Len() int {
	return v.table.Len()
}

func (v *TableMut) ComponentType() reflect.Type {
	return v.table.componentType
}

func (v *TableMut) slot(index int) (any, uint64, bool) {
	s := v.table.slots[index]
	return s.value, s.generation, s.occupied
}

// GetValue returns the type-erased payload stored for the handle.
func (v *TableMut) GetValue(entity Entity) (any, bool) {
	return v.table.Get(entity)
}

// Insert writes a type-erased payload through the borrow. Payloads follow the
// *T convention used by the world so typed accessors can find them.
func (v *TableMut) Insert(entity Entity, value any) error {
	return v.table.Insert(entity, value)
}

// Remove clears the handle's slot, subject to the table's stale-handle guard.
func (v *TableMut) Remove(entity Entity) bool {
	return v.table.Remove(entity)
}

// Done releases the borrow. The view must not be used afterwards.
func (v *TableMut) Done() {
	v.table.releaseExclusive()
}
