package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/nybble/ecs/component"
)

var (
	ErrNilComponent       = errors.New("ecs: component is nil")
	ErrComponentNotFound  = errors.New("ecs: component not found")
	ErrTransformRequired  = errors.New("ecs: component requires a transform")
	ErrTransformInUse     = errors.New("ecs: transform is required by attached components")
	ErrScriptScope        = errors.New("ecs: script scope mismatch")
	ErrEntityNotAlive     = errors.New("ecs: entity not alive")
	ErrEntityInOtherWorld = errors.New("ecs: entity belongs to another world")
)

// Entity owns a set of components and entity-scoped scripts. Transform,
// RigidBody, Collider, Renderer and Animator are also held in fast slots
// that are kept in step with the component set.
type Entity struct {
	id    int
	world *World
	alive bool

	Tag  string
	Name string

	components []component.Component
	scripts    []Script

	transform *component.Transform
	rigidBody *component.RigidBody
	collider  component.Collider
	renderer  *component.Renderer
	animator  *component.Animator
}

// NewEntity returns a detached entity. It gets an id once a world's entity
// manager adds it.
func NewEntity() *Entity {
	return &Entity{}
}

func (e *Entity) ID() int       { return e.id }
func (e *Entity) World() *World { return e.world }

// Alive reports whether the entity is registered and not pending
// destruction.
func (e *Entity) Alive() bool { return e != nil && e.alive }

func (e *Entity) String() string {
	if e.Name != "" {
		return fmt.Sprintf("%s#%d", e.Name, e.id)
	}
	return fmt.Sprintf("entity#%d", e.id)
}

func (e *Entity) Transform() *component.Transform { return e.transform }
func (e *Entity) RigidBody() *component.RigidBody { return e.rigidBody }
func (e *Entity) Collider() component.Collider    { return e.collider }
func (e *Entity) Renderer() *component.Renderer   { return e.renderer }
func (e *Entity) Animator() *component.Animator   { return e.animator }

// AddComponent attaches c. A component of a slotted kind replaces the one
// already attached. Colliders and rigid bodies need a transform first.
func (e *Entity) AddComponent(c component.Component) error {
	if c == nil {
		return ErrNilComponent
	}
	kind := c.Kind()
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", component.ErrInvalidComponentKind, kind)
	}
	if (kind == component.KindCollider || kind == component.KindRigidBody) && e.transform == nil {
		return fmt.Errorf("add %s to %s: %w", kind, e, ErrTransformRequired)
	}

	if kind.Slotted() {
		if i := e.indexOf(kind); i >= 0 {
			if kind == component.KindRenderer {
				e.detachFromScene()
			}
			e.components = append(e.components[:i], e.components[i+1:]...)
		}
	}

	switch v := c.(type) {
	case *component.Transform:
		e.transform = v
	case *component.RigidBody:
		e.rigidBody = v
	case component.Collider:
		e.collider = v
	case *component.Renderer:
		e.renderer = v
	case *component.Animator:
		e.animator = v
	}
	e.components = append(e.components, c)

	if kind == component.KindRenderer {
		e.attachToScene()
	}
	return nil
}

// RemoveComponent detaches the first component of kind.
func (e *Entity) RemoveComponent(kind component.Kind) error {
	i := e.indexOf(kind)
	if i < 0 {
		return fmt.Errorf("remove %s from %s: %w", kind, e, ErrComponentNotFound)
	}
	if kind == component.KindTransform && (e.collider != nil || e.rigidBody != nil) {
		return fmt.Errorf("remove %s from %s: %w", kind, e, ErrTransformInUse)
	}

	switch kind {
	case component.KindTransform:
		e.transform = nil
	case component.KindRigidBody:
		e.rigidBody = nil
	case component.KindCollider:
		e.collider = nil
	case component.KindRenderer:
		e.detachFromScene()
		e.renderer = nil
	case component.KindAnimator:
		e.animator = nil
	}
	e.components = append(e.components[:i], e.components[i+1:]...)
	return nil
}

// Component returns the first component of kind.
func (e *Entity) Component(kind component.Kind) (component.Component, bool) {
	if i := e.indexOf(kind); i >= 0 {
		return e.components[i], true
	}
	return nil, false
}

// Components returns every attached component in attach order.
func (e *Entity) Components() []component.Component {
	out := make([]component.Component, len(e.components))
	copy(out, e.components)
	return out
}

func (e *Entity) HasComponent(kind component.Kind) bool {
	return e.indexOf(kind) >= 0
}

// AddScript attaches an entity-scoped script.
func (e *Entity) AddScript(s Script) error {
	if s == nil {
		return nil
	}
	if s.Scope() != ScopeEntity {
		return fmt.Errorf("add script %q to %s: %w", s.Name(), e, ErrScriptScope)
	}
	e.scripts = append(e.scripts, s)
	return nil
}

// RemoveScript detaches the first script named name.
func (e *Entity) RemoveScript(name string) bool {
	for i, s := range e.scripts {
		if s.Name() == name {
			e.scripts = append(e.scripts[:i], e.scripts[i+1:]...)
			return true
		}
	}
	return false
}

// Script returns the first script named name.
func (e *Entity) Script(name string) (Script, bool) {
	for _, s := range e.scripts {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (e *Entity) Scripts() []Script {
	return e.scripts
}

func (e *Entity) indexOf(kind component.Kind) int {
	for i, c := range e.components {
		if c.Kind() == kind {
			return i
		}
	}
	return -1
}

func (e *Entity) attachToScene() {
	if e.world == nil || !e.alive {
		return
	}
	e.world.sceneInsert(e)
}

func (e *Entity) detachFromScene() {
	if e.world == nil || e.renderer == nil {
		return
	}
	e.world.sceneRemove(e)
}
