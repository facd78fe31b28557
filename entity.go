package ecs

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Entity is an opaque (index, generation) handle. Two entities are the same
// identity only when both fields match; a handle captured before its index was
// recycled fails every generation check afterwards.
type Entity struct {
	Index      int
	Generation uint64
}

type allocation struct {
	inUse      bool
	generation uint64
}

// EntityAllocator issues and recycles entity handles. It is the sole authority
// on entity liveness. Freed indices are reused last-freed-first, bumping the
// stored generation on every reuse.
//
// Generations are 64 bits wide: recycling a single index once per nanosecond
// would take roughly 584 years to wrap, so wraparound is treated as practically
// unreachable. Crossing the configured warn threshold is still surfaced through
// the logger as an early signal.
type EntityAllocator struct {
	allocations []allocation
	free        []int

	logger        zerolog.Logger
	warnThreshold uint64
}

func newEntityAllocator(logger zerolog.Logger, warnThreshold uint64) EntityAllocator {
	return EntityAllocator{
		logger:        logger,
		warnThreshold: warnThreshold,
	}
}

// NewEntityAllocator returns a standalone allocator that logs nowhere.
func NewEntityAllocator() EntityAllocator {
	return newEntityAllocator(zerolog.Nop(), defaultGenerationWarnThreshold)
}

// Allocate returns a live handle, reusing the most recently freed index when
// one exists. It never fails.
func (a *EntityAllocator) Allocate() Entity {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]

		a.allocations[index].generation++
		a.allocations[index].inUse = true

		generation := a.allocations[index].generation
		if generation == a.warnThreshold {
			a.logger.Warn().
				Int("index", index).
				Uint64("generation", generation).
				Msg("entity generation crossed warn threshold")
		}
		return Entity{Index: index, Generation: generation}
	}

	a.allocations = append(a.allocations, allocation{inUse: true})
	return Entity{Index: len(a.allocations) - 1}
}

// Deallocate releases a live handle's index back to the free list. Releasing a
// handle that is not live is a reported error, never a silent no-op, so the
// free list can never accumulate duplicate indices.
func (a *EntityAllocator) Deallocate(entity Entity) error {
	if !a.IsLive(entity) {
		return eris.Wrapf(ErrEntityNotFound, "deallocate entity %d (generation %d)", entity.Index, entity.Generation)
	}
	a.allocations[entity.Index].inUse = false
	a.free = append(a.free, entity.Index)
	return nil
}

// IsLive reports whether the handle refers to a currently allocated entity.
func (a *EntityAllocator) IsLive(entity Entity) bool {
	return a.IndexExists(entity.Index) &&
		a.allocations[entity.Index].generation == entity.Generation &&
		a.allocations[entity.Index].inUse
}

// IndexExists is a bounds check only; it ignores liveness and generation.
func (a *EntityAllocator) IndexExists(index int) bool {
	return index >= 0 && index < len(a.allocations)
}

// Len is the number of allocation records, live or not.
func (a *EntityAllocator) Len() int {
	return len(a.allocations)
}

// liveAt resolves an index to its current generation, if the index holds a
// live entity.
func (a *EntityAllocator) liveAt(index int) (uint64, bool) {
	if !a.IndexExists(index) || !a.allocations[index].inUse {
		return 0, false
	}
	return a.allocations[index].generation, true
}
