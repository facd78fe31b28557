package ecs

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"
)

var (
	// ErrEntityNotFound is returned when an operation references a handle that
	// is not currently live: never allocated, already removed, or out of range.
	ErrEntityNotFound = eris.New("entity not found")

	// ErrGenerationConflict is returned when a write is attempted through a
	// handle whose generation is older than the one already stored at that
	// position (a stale handle touching a recycled index).
	ErrGenerationConflict = eris.New("stale entity generation")

	// ErrTooManyComponentTypes is returned when registering a component type
	// would exceed the query mask width.
	ErrTooManyComponentTypes = eris.New("component type limit exceeded")
)

// BorrowConflictError is the panic payload raised when the shared/exclusive
// borrow rule is violated on a single component table. This is a caller-side
// aliasing bug, so the call path aborts instead of returning an error.
type BorrowConflictError struct {
	ComponentType reflect.Type
	Exclusive     bool
}

func (e BorrowConflictError) Error() string {
	kind := "shared"
	if e.Exclusive {
		kind = "exclusive"
	}
	return fmt.Sprintf("%s borrow of %v table conflicts with an outstanding borrow", kind, e.ComponentType)
}
