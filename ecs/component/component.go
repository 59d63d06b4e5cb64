package component

import (
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidComponentKind = errors.New("ecs: invalid component kind")

// Kind identifies a component type. The built-in kinds have fast-access
// slots on every entity; NewKind registers further kinds for game code.
type Kind uint32

const (
	KindInvalid Kind = iota
	KindTransform
	KindRigidBody
	KindCollider
	KindRenderer
	KindAnimator
	KindInput
	firstCustomKind
)

var (
	kindMu    sync.Mutex
	nextKind  = firstCustomKind
	kindNames = map[Kind]string{
		KindTransform: "transform",
		KindRigidBody: "rigid body",
		KindCollider:  "collider",
		KindRenderer:  "renderer",
		KindAnimator:  "animator",
		KindInput:     "input",
	}
)

// NewKind registers a game-defined component kind.
func NewKind(name string) Kind {
	kindMu.Lock()
	defer kindMu.Unlock()
	k := nextKind
	nextKind++
	kindNames[k] = name
	return k
}

func (k Kind) Valid() bool {
	kindMu.Lock()
	defer kindMu.Unlock()
	_, ok := kindNames[k]
	return ok
}

// Slotted reports whether entities keep a direct reference to this kind.
// An entity holds at most one component of a slotted kind.
func (k Kind) Slotted() bool {
	return k >= KindTransform && k <= KindAnimator
}

func (k Kind) String() string {
	kindMu.Lock()
	defer kindMu.Unlock()
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint32(k))
}

// Component is plain data attached to an entity.
type Component interface {
	Kind() Kind
}
