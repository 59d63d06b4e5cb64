package ecs

import "github.com/milk9111/nybble/ecs/component"

// Scope selects which dispatch loop drives a script.
type Scope uint8

const (
	ScopeEntity Scope = iota
	ScopeWorld
)

func (s Scope) String() string {
	if s == ScopeWorld {
		return "world"
	}
	return "entity"
}

// Context is passed to every script callback. Entity is nil for world
// scripts.
type Context struct {
	World  *World
	Entity *Entity
	DT     float64
}

// Collision describes the other side of a collision.
type Collision struct {
	Entity   *Entity
	Collider component.Collider
}

// Script is behaviour attached to an entity or a world.
//
// Update runs once per frame after the systems. TakeInput runs once per
// queued input event. CollisionEvent runs for every collision involving the
// script's entity, triggers included.
type Script interface {
	Name() string
	Scope() Scope
	Update(ctx Context)
	TakeInput(ctx Context, ev Event)
	CollisionEvent(ctx Context, other Collision)
}

// BaseScript gives embedding types no-op callbacks.
type BaseScript struct {
	name  string
	scope Scope
}

func NewBaseScript(name string, scope Scope) BaseScript {
	return BaseScript{name: name, scope: scope}
}

func (b BaseScript) Name() string                    { return b.name }
func (b BaseScript) Scope() Scope                    { return b.scope }
func (BaseScript) Update(Context)                    {}
func (BaseScript) TakeInput(Context, Event)          {}
func (BaseScript) CollisionEvent(Context, Collision) {}
