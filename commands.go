package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

type commandType int

const (
	cmdCreate commandType = iota
	cmdDestroy
	cmdAddComponent
	cmdRemoveComponent
)

type command struct {
	typ           commandType
	amount        int
	entity        Entity
	componentType reflect.Type
	prototypes    []any
}

type commandKey struct {
	entity        Entity
	componentType reflect.Type
}

// CommandBuffer queues structural changes so callers can record them while
// table borrows are outstanding (for example mid-cursor) and apply them once
// the borrows are released. Commands run in a fixed order: creates first,
// component changes, destroys last.
type CommandBuffer struct {
	createCommands    []command
	componentCommands []command
	destroyCommands   []command

	pendingDestroy map[Entity]struct{}
	pendingChanges map[commandKey]int
}

func newCommandBuffer() *CommandBuffer {
	return &CommandBuffer{
		pendingDestroy: make(map[Entity]struct{}),
		pendingChanges: make(map[commandKey]int),
	}
}

// CreateEntities queues amount entity creations, each receiving its own copy
// of every prototype component value.
func (b *CommandBuffer) CreateEntities(amount int, prototypes ...any) {
	b.createCommands = append(b.createCommands, command{
		typ:        cmdCreate,
		amount:     amount,
		prototypes: prototypes,
	})
}

// AddComponent queues attaching a copy of value to the entity. A later queued
// change for the same entity and component type replaces this one.
func (b *CommandBuffer) AddComponent(entity Entity, value any) {
	b.enqueueChange(command{
		typ:           cmdAddComponent,
		entity:        entity,
		componentType: reflect.TypeOf(value),
		prototypes:    []any{value},
	})
}

// RemoveComponent queues detaching the component type from the entity. Use
// TypeOf to name the component type.
func (b *CommandBuffer) RemoveComponent(entity Entity, componentType reflect.Type) {
	b.enqueueChange(command{
		typ:           cmdRemoveComponent,
		entity:        entity,
		componentType: componentType,
	})
}

func (b *CommandBuffer) enqueueChange(cmd command) {
	if _, destroyed := b.pendingDestroy[cmd.entity]; destroyed {
		return
	}
	key := commandKey{entity: cmd.entity, componentType: cmd.componentType}
	if index, exists := b.pendingChanges[key]; exists {
		b.componentCommands[index] = cmd
		return
	}
	b.pendingChanges[key] = len(b.componentCommands)
	b.componentCommands = append(b.componentCommands, cmd)
}

// DestroyEntities queues removal of the given entities, dropping any queued
// component changes for them.
func (b *CommandBuffer) DestroyEntities(entities ...Entity) {
	for _, entity := range entities {
		if _, exists := b.pendingDestroy[entity]; exists {
			continue
		}
		b.pendingDestroy[entity] = struct{}{}
		for key, index := range b.pendingChanges {
			if key.entity == entity {
				b.componentCommands[index].typ = -1
				delete(b.pendingChanges, key)
			}
		}
		b.destroyCommands = append(b.destroyCommands, command{typ: cmdDestroy, entity: entity})
	}
}

// Apply runs the queued commands against the world and clears the buffer on
// success. No table borrows may be outstanding when it runs.
func (b *CommandBuffer) Apply(world *World) error {
	for _, cmd := range b.createCommands {
		for range cmd.amount {
			entity := world.CreateEntity()
			for _, prototype := range cmd.prototypes {
				componentType, boxed := boxPrototype(prototype)
				if err := world.addBoxed(entity, componentType, boxed); err != nil {
					return eris.Wrap(err, "failed to apply queued entity creation")
				}
			}
		}
	}

	for _, cmd := range b.componentCommands {
		switch cmd.typ {
		case cmdAddComponent:
			componentType, boxed := boxPrototype(cmd.prototypes[0])
			if err := world.addBoxed(cmd.entity, componentType, boxed); err != nil {
				return eris.Wrap(err, "failed to apply queued component add")
			}
		case cmdRemoveComponent:
			if err := world.removeByType(cmd.entity, cmd.componentType); err != nil {
				return eris.Wrap(err, "failed to apply queued component remove")
			}
		}
	}

	for _, cmd := range b.destroyCommands {
		if !world.EntityExists(cmd.entity) {
			continue
		}
		if err := world.RemoveEntity(cmd.entity); err != nil {
			return eris.Wrap(err, "failed to apply queued destroy")
		}
	}

	b.createCommands = b.createCommands[:0]
	b.componentCommands = b.componentCommands[:0]
	b.destroyCommands = b.destroyCommands[:0]
	clear(b.pendingDestroy)
	clear(b.pendingChanges)
	return nil
}

// boxPrototype copies a prototype component value into its own *T payload.
func boxPrototype(prototype any) (reflect.Type, any) {
	componentType := reflect.TypeOf(prototype)
	pointer := reflect.New(componentType)
	pointer.Elem().Set(reflect.ValueOf(prototype))
	return componentType, pointer.Interface()
}
