package ecs

import "iter"

var _ iCursor = &Cursor{}

func newCursor(world *World, views ...TableView) *Cursor {
	return &Cursor{
		world: world,
		views: views,
	}
}

// Next advances to the next index where every view holds a live value.
// It returns false once the shortest view is exhausted and resets the cursor
// so it can be reused for another pass.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.index < c.length {
		index := c.index
		c.index++
		if generation, ok := c.match(index); ok {
			c.current = Entity{Index: index, Generation: generation}
			return true
		}
	}
	c.Reset()
	return false
}

// Entity is the entity at the cursor's current position.
func (c *Cursor) Entity() Entity {
	return c.current
}

// Entities is the range-over form of the cursor: a fresh, index-ordered scan
// yielding (index, entity) for every position where all views line up.
func (c *Cursor) Entities() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		length := c.shortest()
		for index := 0; index < length; index++ {
			if generation, ok := c.match(index); ok {
				if !yield(index, Entity{Index: index, Generation: generation}) {
					return
				}
			}
		}
	}
}

// TotalMatched counts the matching positions without disturbing Next state.
func (c *Cursor) TotalMatched() int {
	total := 0
	length := c.shortest()
	for index := 0; index < length; index++ {
		if _, ok := c.match(index); ok {
			total++
		}
	}
	return total
}

func (c *Cursor) Reset() {
	c.index = 0
	c.length = 0
	c.current = Entity{}
	c.initialized = false
}

func (c *Cursor) initialize() {
	c.length = c.shortest()
	c.index = 0
	c.initialized = true
}

// shortest is the iteration bound: the shortest view truncates the pass, since
// lazily-grown tables may trail older ones and positions past a table's length
// are absent by definition.
func (c *Cursor) shortest() int {
	if len(c.views) == 0 {
		return 0
	}
	length := c.views[0].Len()
	for _, view := range c.views[1:] {
		length = min(length, view.Len())
	}
	return length
}

// match reports whether every view holds a value at index written by the
// index's current live occupant. Slots left behind by removed entities fail
// the generation comparison and are skipped, never yielded partially.
func (c *Cursor) match(index int) (uint64, bool) {
	generation, live := c.world.allocator.liveAt(index)
	if !live {
		return 0, false
	}
	for _, view := range c.views {
		_, slotGeneration, occupied := view.slot(index)
		if !occupied || slotGeneration != generation {
			return 0, false
		}
	}
	return generation, true
}
