package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/mask"
)

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	components []reflect.Type
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []reflect.Type) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		components: components,
	}
}

// nodeMask resolves the node's component types to registry row bits. The
// second result is false when a type was never registered, in which case no
// entity can hold it.
func (n *compositeNode) nodeMask(world *World) (mask.Mask, bool) {
	var m mask.Mask
	allKnown := true
	for _, componentType := range n.components {
		row, ok := world.registry.rows[componentType]
		if !ok {
			allKnown = false
			continue
		}
		m.Mark(row)
	}
	return m, allKnown
}

func (n *compositeNode) Evaluate(present mask.Mask, world *World) bool {
	nodeMask, allKnown := n.nodeMask(world)

	switch n.op {
	case OpAnd:
		if !allKnown || !present.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(present, world) {
				return false
			}
		}
		return true

	case OpOr:
		if present.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(present, world) {
				return true
			}
		}
		return false

	case OpNot:
		// An unregistered type is absent from every entity and leaves the
		// node mask empty. ContainsNone reports false for an empty mask,
		// which would invert the meaning here, so the empty mask counts as
		// excluded.
		excluded := nodeMask.IsEmpty() || present.ContainsNone(nodeMask)
		if !excluded {
			return false
		}
		for _, child := range n.children {
			if child.Evaluate(present, world) {
				return false
			}
		}
		return true
	}
	return false
}

func (n *compositeNode) Bounds(world *World) int {
	switch n.op {
	case OpAnd:
		// A conjunction cannot match past its shortest table: tables grow
		// lazily, so a brand-new component type truncates the scan.
		bounds := -1
		for _, componentType := range n.components {
			length := 0
			if table, ok := world.registry.lookup(componentType); ok {
				length = table.Len()
			}
			if bounds < 0 || length < bounds {
				bounds = length
			}
		}
		for _, child := range n.children {
			if childBounds := child.Bounds(world); bounds < 0 || childBounds < bounds {
				bounds = childBounds
			}
		}
		if bounds < 0 {
			return 0
		}
		return bounds

	case OpOr:
		bounds := 0
		for _, componentType := range n.components {
			if table, ok := world.registry.lookup(componentType); ok {
				bounds = max(bounds, table.Len())
			}
		}
		for _, child := range n.children {
			bounds = max(bounds, child.Bounds(world))
		}
		return bounds

	case OpNot:
		// Exclusion ranges over every allocated index.
		return world.allocator.Len()
	}
	return 0
}

func (n *compositeNode) collect(into map[reflect.Type]struct{}) {
	for _, componentType := range n.components {
		into[componentType] = struct{}{}
	}
	for _, child := range n.children {
		child.collect(into)
	}
}

func (q *query) And(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) processItems(items ...interface{}) ([]reflect.Type, []QueryNode) {
	components := make([]reflect.Type, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case reflect.Type:
			components = append(components, v)
		case []reflect.Type:
			components = append(components, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

func (q *query) Evaluate(present mask.Mask, world *World) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(present, world)
}

func (q *query) Bounds(world *World) int {
	if q.root == nil {
		return 0
	}
	return q.root.Bounds(world)
}

func (q *query) collect(into map[reflect.Type]struct{}) {
	if q.root != nil {
		q.root.collect(into)
	}
}
