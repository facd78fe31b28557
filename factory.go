package ecs

type factory struct{}

var Factory factory

func (f factory) NewWorld(options ...Option) *World {
	return newWorld(options...)
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(world *World, views ...TableView) *Cursor {
	return newCursor(world, views...)
}

func (f factory) NewCommandBuffer() *CommandBuffer {
	return newCommandBuffer()
}
