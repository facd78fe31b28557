package ecs

import (
	"errors"
	"reflect"

	"github.com/TheBitDrifter/mask"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World composes the entity allocator, the component table registry, and the
// resource store behind one API. Writes flow World -> registry -> table; reads
// flow back out directly or in bulk through cursors.
type World struct {
	allocator EntityAllocator
	registry  registry
	resources Resources
	logger    zerolog.Logger
}

func newWorld(options ...Option) *World {
	config := defaultConfig()
	for _, option := range options {
		option(&config)
	}
	world := &World{
		allocator: newEntityAllocator(config.logger, config.generationWarnThreshold),
		registry:  newRegistry(),
		logger:    config.logger,
	}
	if config.initialCapacity > 0 {
		world.allocator.allocations = make([]allocation, 0, config.initialCapacity)
	}
	return world
}

// CreateEntity allocates a single entity handle.
func (w *World) CreateEntity() Entity {
	return w.allocator.Allocate()
}

// CreateEntities allocates count entity handles.
func (w *World) CreateEntities(count int) []Entity {
	entities := make([]Entity, count)
	for i := range entities {
		entities[i] = w.allocator.Allocate()
	}
	w.logger.Debug().Int("count", count).Msg("entities created")
	return entities
}

// RemoveEntity releases the handle. Component slots are deliberately not
// cleared: stale slots read as absent through the generation check and are
// reclaimed on the index's next write, keeping removal O(1).
func (w *World) RemoveEntity(entity Entity) error {
	if err := w.allocator.Deallocate(entity); err != nil {
		return err
	}
	w.logger.Debug().Int("index", entity.Index).Uint64("generation", entity.Generation).Msg("entity removed")
	return nil
}

// RemoveEntities releases every given handle, continuing past dead ones and
// reporting them joined into one error.
func (w *World) RemoveEntities(entities ...Entity) error {
	var errs []error
	for _, entity := range entities {
		if err := w.allocator.Deallocate(entity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EntityExists reports whether the handle is currently live.
func (w *World) EntityExists(entity Entity) bool {
	return w.allocator.IsLive(entity)
}

// Resources is the world's type-keyed singleton store.
func (w *World) Resources() *Resources {
	return &w.resources
}

func (w *World) componentTableFor(componentType reflect.Type) (*componentTable, error) {
	if table, ok := w.registry.lookup(componentType); ok {
		return table, nil
	}
	table, err := w.registry.tableFor(componentType)
	if err != nil {
		return nil, err
	}
	w.logger.Debug().Str("component", componentType.String()).Uint32("row", table.row).Msg("component table created")
	return table, nil
}

// addBoxed stores an already-boxed (*T as any) payload, taking the table's
// exclusive borrow for the duration of the call. The guard here is on the
// index being allocated and in use; a stale generation is left for the
// table's own check so it surfaces as ErrGenerationConflict, not as a
// missing entity.
func (w *World) addBoxed(entity Entity, componentType reflect.Type, boxed any) error {
	if _, inUse := w.allocator.liveAt(entity.Index); !inUse {
		return eris.Wrapf(ErrEntityNotFound, "add %v to entity %d (generation %d)",
			componentType, entity.Index, entity.Generation)
	}
	table, err := w.componentTableFor(componentType)
	if err != nil {
		return err
	}
	table.acquireExclusive()
	defer table.releaseExclusive()
	return table.Insert(entity, boxed)
}

// removeByType clears the entity's slot for a component type. Removing from a
// table that was never created is a no-op success.
func (w *World) removeByType(entity Entity, componentType reflect.Type) error {
	if _, inUse := w.allocator.liveAt(entity.Index); !inUse {
		return eris.Wrapf(ErrEntityNotFound, "remove %v from entity %d (generation %d)",
			componentType, entity.Index, entity.Generation)
	}
	table, ok := w.registry.lookup(componentType)
	if !ok {
		return nil
	}
	table.acquireExclusive()
	defer table.releaseExclusive()
	table.Remove(entity)
	return nil
}

// getBoxed reads the boxed payload for a live entity, taking the table's
// shared borrow for the duration of the call.
func (w *World) getBoxed(entity Entity, componentType reflect.Type) (any, bool) {
	if !w.allocator.IsLive(entity) {
		return nil, false
	}
	table, ok := w.registry.lookup(componentType)
	if !ok {
		return nil, false
	}
	table.acquireShared()
	defer table.releaseShared()
	return table.Get(entity)
}

// Match runs a query node against the world and materializes the matching
// entities in index order. Every table the node mentions is borrowed shared
// for the duration of the scan; each invocation is a fresh linear pass with
// no caching.
func (w *World) Match(node QueryNode) []Entity {
	involved := map[reflect.Type]struct{}{}
	node.collect(involved)

	borrowed := make([]*componentTable, 0, len(involved))
	for componentType := range involved {
		if table, ok := w.registry.lookup(componentType); ok {
			table.acquireShared()
			borrowed = append(borrowed, table)
		}
	}
	defer func() {
		for _, table := range borrowed {
			table.releaseShared()
		}
	}()

	bounds := node.Bounds(w)
	var matched []Entity
	for index := 0; index < bounds; index++ {
		generation, live := w.allocator.liveAt(index)
		if !live {
			continue
		}
		var present mask.Mask
		for _, table := range borrowed {
			if index >= table.Len() {
				continue
			}
			slot := table.slots[index]
			if slot.occupied && slot.generation == generation {
				present.Mark(table.row)
			}
		}
		if node.Evaluate(present, w) {
			matched = append(matched, Entity{Index: index, Generation: generation})
		}
	}
	return matched
}
