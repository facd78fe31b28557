/*
Package ecs provides a sparse, generational Entity-Component-System core for games
and simulations.

Entities are opaque (index, generation) handles issued by a recycling allocator.
Components of any type can be attached to entities; each component type gets its own
independently growable table of (value, generation) slots, and every table is guarded
by a runtime shared/exclusive borrow check so that type-erased storage stays safe
without compile-time knowledge of the component set.

Core Concepts:

  - Entity: a (index, generation) handle. Generations detect stale handles after an
    index has been recycled.
  - Component: a plain Go value attached to at most one entity per registered type.
  - Table: the per-type generational slot storage, borrowed shared or exclusive.
  - Cursor: the zip protocol; iterates the index-aligned intersection of several
    borrowed tables.
  - Resources: type-keyed singletons for cross-cutting state such as elapsed time.

Basic Usage:

	world := ecs.Factory.NewWorld()

	player := world.CreateEntity()
	_ = ecs.AddComponent(world, player, Position{X: 1, Y: 2})
	_ = ecs.AddComponent(world, player, Health{Value: 10})

	// Single-entity access
	pos := ecs.GetComponent[Position](world, player)
	pos.X += 1

	// Bulk access: borrow tables, zip them with a cursor
	positions, _ := ecs.GetComponentTableMut[Position](world)
	healths, _ := ecs.GetComponentTable[Health](world)
	defer positions.Done()
	defer healths.Done()

	cursor := ecs.Factory.NewCursor(world, positions, healths)
	for cursor.Next() {
		entity := cursor.Entity()
		pos := ecs.Get[Position](positions, entity)
		hp := ecs.Get[Health](healths, entity)
		pos.Y += float64(hp.Value)
	}

The library is single threaded and synchronous: every operation runs to completion on
the caller's goroutine, and "systems" are ordinary functions invoked in whatever order
the host application chooses.
*/
package ecs
