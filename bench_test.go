package ecs

import "testing"

func BenchmarkCreateRemoveEntities(b *testing.B) {
	world := Factory.NewWorld(WithInitialCapacity(1024))
	for i := 0; i < b.N; i++ {
		entities := world.CreateEntities(1024)
		_ = world.RemoveEntities(entities...)
	}
}

func BenchmarkAddComponent(b *testing.B) {
	world := Factory.NewWorld()
	entity := world.CreateEntity()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = AddComponent(world, entity, Position{X: 1})
	}
}

func BenchmarkCursorIteration(b *testing.B) {
	world := Factory.NewWorld(WithInitialCapacity(1024))
	for _, entity := range world.CreateEntities(1024) {
		_ = AddComponent(world, entity, Position{})
		_ = AddComponent(world, entity, Velocity{X: 1, Y: 1})
	}

	positions, err := GetComponentTableMut[Position](world)
	if err != nil {
		b.Fatal(err)
	}
	defer positions.Done()
	velocities, err := GetComponentTable[Velocity](world)
	if err != nil {
		b.Fatal(err)
	}
	defer velocities.Done()
	cursor := Factory.NewCursor(world, positions, velocities)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for cursor.Next() {
			position := Get[Position](positions, cursor.Entity())
			vel := Get[Velocity](velocities, cursor.Entity())
			position.X += vel.X
			position.Y += vel.Y
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	world := Factory.NewWorld(WithInitialCapacity(1024))
	for i, entity := range world.CreateEntities(1024) {
		_ = AddComponent(world, entity, Position{})
		if i%2 == 0 {
			_ = AddComponent(world, entity, Health{Value: i})
		}
	}
	node := Factory.NewQuery().And(TypeOf[Position](), TypeOf[Health]())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = world.Match(node)
	}
}
