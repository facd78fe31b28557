package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

// TableView is read access to a borrowed component table. Both shared (TableRef)
// and exclusive (TableMut) borrows satisfy it, so cursors accept either.
type TableView interface {
	Len() int
	ComponentType() reflect.Type
	GetValue(entity Entity) (any, bool)

	// slot is index-ordered raw access, including empty positions, so cursors
	// can pair positions across tables of different lengths.
	slot(index int) (value any, generation uint64, occupied bool)
}

type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

type QueryNode interface {
	// Evaluate reports whether the node matches the presence mask of one
	// entity index. The mask marks the registry row of every component type
	// holding a live value at that index.
	Evaluate(present mask.Mask, world *World) bool

	// Bounds is the index range the node can match within.
	Bounds(world *World) int

	// collect gathers every component type the node mentions so Match can
	// borrow the involved tables before scanning.
	collect(into map[reflect.Type]struct{})
}

type System func(world *World) error

type iCursor interface {
	Next() bool
	Entity() Entity
}

// Cursor iterates the index-aligned intersection of several borrowed tables:
// an index is visited only when every view holds a live, correctly-generationed
// value there. Iteration stops at the shortest view's length.
type Cursor struct {
	world *World
	views []TableView

	// Current iteration state
	index   int
	length  int
	current Entity

	initialized bool
}
