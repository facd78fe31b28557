package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioWorld builds the canonical fixture: entity 0 has Position and
// Health, entity 1 only Position, entity 2 only Health.
func scenarioWorld(t *testing.T) (*World, []Entity) {
	t.Helper()
	world := Factory.NewWorld()
	entities := world.CreateEntities(3)

	require.NoError(t, AddComponent(world, entities[0], Position{X: 1}))
	require.NoError(t, AddComponent(world, entities[0], Health{Value: 10}))
	require.NoError(t, AddComponent(world, entities[1], Position{X: 2}))
	require.NoError(t, AddComponent(world, entities[2], Health{Value: 30}))
	return world, entities
}

func TestCursorIntersection(t *testing.T) {
	world, entities := scenarioWorld(t)

	positions, err := GetComponentTable[Position](world)
	require.NoError(t, err)
	defer positions.Done()
	healths, err := GetComponentTable[Health](world)
	require.NoError(t, err)
	defer healths.Done()

	cursor := Factory.NewCursor(world, positions, healths)

	var matched []Entity
	for cursor.Next() {
		matched = append(matched, cursor.Entity())
	}
	assert.Equal(t, []Entity{entities[0]}, matched, "only entity 0 holds both components")

	// The cursor reset itself on exhaustion and can run a second pass
	assert.Equal(t, 1, cursor.TotalMatched())
	require.True(t, cursor.Next())
	assert.Equal(t, entities[0], cursor.Entity())
}

func TestCursorEntitiesSeq(t *testing.T) {
	world, entities := scenarioWorld(t)

	positions, err := GetComponentTable[Position](world)
	require.NoError(t, err)
	defer positions.Done()
	healths, err := GetComponentTable[Health](world)
	require.NoError(t, err)
	defer healths.Done()

	cursor := Factory.NewCursor(world, positions, healths)
	for index, entity := range cursor.Entities() {
		assert.Equal(t, entities[0], entity)
		assert.Equal(t, 0, index)
	}
}

func TestCursorShortestTableTruncates(t *testing.T) {
	world := Factory.NewWorld()
	entities := world.CreateEntities(5)

	// Position table reaches length 5, Velocity only length 3
	for i, entity := range entities {
		require.NoError(t, AddComponent(world, entity, Position{X: float64(i)}))
	}
	for _, entity := range entities[:3] {
		require.NoError(t, AddComponent(world, entity, Velocity{}))
	}

	positions, err := GetComponentTable[Position](world)
	require.NoError(t, err)
	defer positions.Done()
	velocities, err := GetComponentTable[Velocity](world)
	require.NoError(t, err)
	defer velocities.Done()

	cursor := Factory.NewCursor(world, positions, velocities)
	for cursor.Next() {
		if cursor.Entity().Index >= 3 {
			t.Fatalf("cursor yielded index %d beyond the shortest table's length", cursor.Entity().Index)
		}
	}
	assert.Equal(t, 3, cursor.TotalMatched())
}

func TestCursorSkipsRemovedEntities(t *testing.T) {
	world, entities := scenarioWorld(t)
	require.NoError(t, world.RemoveEntity(entities[0]))

	positions, err := GetComponentTable[Position](world)
	require.NoError(t, err)
	defer positions.Done()
	healths, err := GetComponentTable[Health](world)
	require.NoError(t, err)
	defer healths.Done()

	cursor := Factory.NewCursor(world, positions, healths)
	assert.False(t, cursor.Next(), "slots left by a removed entity must not be yielded")
}

func TestCursorNoPartialTuples(t *testing.T) {
	world := Factory.NewWorld()
	entities := world.CreateEntities(2)

	// Entity 0 wrote Position then lost its index to a recycle before Health
	// was written, so the two tables disagree on generation at index 0.
	require.NoError(t, AddComponent(world, entities[0], Position{}))
	require.NoError(t, world.RemoveEntity(entities[0]))
	recycled := world.CreateEntity()
	require.NoError(t, AddComponent(world, recycled, Health{Value: 1}))
	require.NoError(t, AddComponent(world, entities[1], Position{}))
	require.NoError(t, AddComponent(world, entities[1], Health{Value: 2}))

	positions, err := GetComponentTable[Position](world)
	require.NoError(t, err)
	defer positions.Done()
	healths, err := GetComponentTable[Health](world)
	require.NoError(t, err)
	defer healths.Done()

	cursor := Factory.NewCursor(world, positions, healths)
	var matched []Entity
	for cursor.Next() {
		matched = append(matched, cursor.Entity())
	}
	assert.Equal(t, []Entity{entities[1]}, matched,
		"index 0 has values in both tables but from different generations")
}

func TestMatchAnd(t *testing.T) {
	world, entities := scenarioWorld(t)

	node := Factory.NewQuery().And(TypeOf[Position](), TypeOf[Health]())
	assert.Equal(t, []Entity{entities[0]}, world.Match(node))
}

func TestMatchOr(t *testing.T) {
	world, entities := scenarioWorld(t)

	node := Factory.NewQuery().Or(TypeOf[Position](), TypeOf[Health]())
	assert.Equal(t, entities, world.Match(node), "every entity holds at least one of the two")
}

func TestMatchNot(t *testing.T) {
	world, entities := scenarioWorld(t)

	node := Factory.NewQuery().Not(TypeOf[Health]())
	assert.Equal(t, []Entity{entities[1]}, world.Match(node))
}

func TestMatchComposite(t *testing.T) {
	world, entities := scenarioWorld(t)

	// Position but not Health
	query := Factory.NewQuery()
	node := query.And(TypeOf[Position](), query.Not(TypeOf[Health]()))
	assert.Equal(t, []Entity{entities[1]}, world.Match(node))
}

func TestMatchUnregisteredType(t *testing.T) {
	world, entities := scenarioWorld(t)

	// And with a type no entity ever held matches nothing
	node := Factory.NewQuery().And(TypeOf[Position](), TypeOf[Velocity]())
	assert.Empty(t, world.Match(node))

	// Not of an unregistered type matches every live entity
	notNode := Factory.NewQuery().Not(TypeOf[Velocity]())
	assert.Equal(t, entities, world.Match(notNode))

	// Same with a child clause attached to the exclusion
	nested := Factory.NewQuery()
	nestedNot := nested.Not(TypeOf[Velocity](), nested.And(TypeOf[Tag]()))
	assert.Equal(t, entities, world.Match(nestedNot))
}

func TestMatchSkipsDeadAndStale(t *testing.T) {
	world, entities := scenarioWorld(t)

	require.NoError(t, world.RemoveEntity(entities[0]))
	node := Factory.NewQuery().And(TypeOf[Position](), TypeOf[Health]())
	assert.Empty(t, world.Match(node))

	// The recycled occupant is matched once it writes both components again
	recycled := world.CreateEntity()
	require.NoError(t, AddComponent(world, recycled, Position{}))
	require.NoError(t, AddComponent(world, recycled, Health{Value: 1}))
	assert.Equal(t, []Entity{recycled}, world.Match(node))
}

func TestMatchRespectsBorrows(t *testing.T) {
	world, _ := scenarioWorld(t)

	view, err := GetComponentTableMut[Position](world)
	require.NoError(t, err)
	defer view.Done()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered, "match must not scan a table under exclusive borrow")
		_, ok := recovered.(BorrowConflictError)
		require.True(t, ok)
	}()
	world.Match(Factory.NewQuery().And(TypeOf[Position]()))
}
