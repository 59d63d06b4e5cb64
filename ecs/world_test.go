package ecs

import (
	"errors"
	"image"
	"testing"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs/component"
)

type testSprite struct{ w, h int }

func (s testSprite) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

type recordingSystem struct {
	tag      string
	log      *[]string
	inserted []*Entity
	removed  []*Entity
	built    int
}

func (s *recordingSystem) Tag() string { return s.tag }

func (s *recordingSystem) Process(w *World, entities []*Entity) {
	*s.log = append(*s.log, s.tag)
}

func (s *recordingSystem) Insert(e *Entity) { s.inserted = append(s.inserted, e) }
func (s *recordingSystem) Remove(e *Entity) bool {
	s.removed = append(s.removed, e)
	return true
}

func (s *recordingSystem) ConstructScene(entities []*Entity) { s.built++ }

type funcScript struct {
	BaseScript
	update func(ctx Context)
	input  func(ctx Context, ev Event)
}

func (f *funcScript) Update(ctx Context) {
	if f.update != nil {
		f.update(ctx)
	}
}

func (f *funcScript) TakeInput(ctx Context, ev Event) {
	if f.input != nil {
		f.input(ctx, ev)
	}
}

func TestIDRecycling(t *testing.T) {
	w := NewWorld("ids", nil)
	ents := make([]*Entity, 0, 7)
	for i := 0; i < 7; i++ {
		ents = append(ents, w.CreateEntity())
	}
	if ents[6].ID() != 7 {
		t.Fatalf("expected seventh id to be 7, got %d", ents[6].ID())
	}
	if err := w.DestroyEntity(ents[6]); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok := w.Entity(7); ok {
		t.Fatalf("destroyed entity still registered")
	}

	reused := w.CreateEntity()
	if reused.ID() != 7 {
		t.Fatalf("expected recycled id 7, got %d", reused.ID())
	}
	fresh := w.CreateEntity()
	if fresh.ID() != 8 {
		t.Fatalf("expected id 7 reused only once, got %d", fresh.ID())
	}

	seen := map[int]bool{}
	for _, e := range w.Entities() {
		if seen[e.ID()] {
			t.Fatalf("duplicate id %d", e.ID())
		}
		seen[e.ID()] = true
	}

	if err := w.DestroyEntity(ents[6]); !errors.Is(err, ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale entity, got %v", err)
	}
}

func TestFastSlots(t *testing.T) {
	cases := []struct {
		name  string
		setup func(e *Entity) error
		check func(t *testing.T, e *Entity)
	}{
		{
			name: "add_sets_slot",
			setup: func(e *Entity) error {
				if err := e.AddComponent(component.NewTransform(common.V(1, 2))); err != nil {
					return err
				}
				return e.AddComponent(component.NewBoxCollider(4, 4))
			},
			check: func(t *testing.T, e *Entity) {
				if e.Transform() == nil || e.Collider() == nil {
					t.Fatalf("expected transform and collider slots")
				}
				c, ok := e.Component(component.KindCollider)
				if !ok || c != e.Collider() {
					t.Fatalf("collider slot out of step with component set")
				}
			},
		},
		{
			name: "remove_clears_slot",
			setup: func(e *Entity) error {
				if err := e.AddComponent(component.NewTransform(common.Vec2{})); err != nil {
					return err
				}
				if err := e.AddComponent(component.NewRigidBody(common.Vec2{}, 1)); err != nil {
					return err
				}
				return e.RemoveComponent(component.KindRigidBody)
			},
			check: func(t *testing.T, e *Entity) {
				if e.RigidBody() != nil || e.HasComponent(component.KindRigidBody) {
					t.Fatalf("expected rigid body removed from slot and set")
				}
			},
		},
		{
			name: "slotted_kind_replaces",
			setup: func(e *Entity) error {
				if err := e.AddComponent(component.NewRenderer(testSprite{1, 1}, common.Vec2{})); err != nil {
					return err
				}
				return e.AddComponent(component.NewRenderer(testSprite{2, 2}, common.Vec2{}))
			},
			check: func(t *testing.T, e *Entity) {
				if n := len(e.Components()); n != 1 {
					t.Fatalf("expected a single renderer, got %d components", n)
				}
				if e.Renderer().Sprite != (testSprite{2, 2}) {
					t.Fatalf("expected replacement renderer in slot")
				}
			},
		},
		{
			name: "custom_kinds_repeat",
			setup: func(e *Entity) error {
				if err := e.AddComponent(&component.Input{}); err != nil {
					return err
				}
				return e.AddComponent(&component.Input{})
			},
			check: func(t *testing.T, e *Entity) {
				if n := len(e.Components()); n != 2 {
					t.Fatalf("expected two input components, got %d", n)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld("slots", nil)
			e := w.CreateEntity()
			if err := c.setup(e); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			c.check(t, e)
		})
	}
}

func TestTransformGuards(t *testing.T) {
	w := NewWorld("guards", nil)
	e := w.CreateEntity()

	if err := e.AddComponent(component.NewCircleCollider(2)); !errors.Is(err, ErrTransformRequired) {
		t.Fatalf("expected ErrTransformRequired for collider, got %v", err)
	}
	if err := e.AddComponent(component.NewRigidBody(common.Vec2{}, 1)); !errors.Is(err, ErrTransformRequired) {
		t.Fatalf("expected ErrTransformRequired for rigid body, got %v", err)
	}
	if e.Collider() != nil || e.RigidBody() != nil {
		t.Fatalf("rejected components must not fill slots")
	}

	if err := e.AddComponent(component.NewTransform(common.Vec2{})); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if err := e.AddComponent(component.NewCircleCollider(2)); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	if err := e.RemoveComponent(component.KindTransform); !errors.Is(err, ErrTransformInUse) {
		t.Fatalf("expected ErrTransformInUse, got %v", err)
	}
	if err := e.AddComponent(nil); !errors.Is(err, ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
	if err := e.RemoveComponent(component.KindAnimator); !errors.Is(err, ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}

func TestGameObject(t *testing.T) {
	w := NewWorld("objects", nil)
	e := w.CreateGameObject(testSprite{w: 20, h: 10})

	box, ok := e.Collider().(*component.BoxCollider)
	if !ok {
		t.Fatalf("expected box collider, got %T", e.Collider())
	}
	if box.Width != 20 || box.Height != 10 {
		t.Fatalf("expected collider sized to sprite, got %vx%v", box.Width, box.Height)
	}
	if e.Renderer().Pivot != common.V(10, 5) {
		t.Fatalf("expected centred pivot, got %v", e.Renderer().Pivot)
	}
	if w.CreateCircleColliderObject(3).Renderer() != nil {
		t.Fatalf("collider objects are invisible")
	}
}

func TestSystemsRunInRegistrationOrder(t *testing.T) {
	var order []string
	w := NewWorld("order", nil)
	w.AddSystem(&recordingSystem{tag: "physics", log: &order})
	w.AddSystem(&recordingSystem{tag: "render", log: &order})

	script := &funcScript{
		BaseScript: NewBaseScript("tail", ScopeWorld),
		update:     func(Context) { order = append(order, "script") },
	}
	if err := w.AddScript(script); err != nil {
		t.Fatalf("add script: %v", err)
	}
	w.Run()

	want := []string{"physics", "render", "script"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
	if w.System("render") == nil || w.System("missing") != nil {
		t.Fatalf("system lookup by tag failed")
	}
}

func TestScriptDispatch(t *testing.T) {
	var calls []string
	w := NewWorld("dispatch", nil)
	e := w.CreateEntity()

	entityScript := &funcScript{
		BaseScript: NewBaseScript("mover", ScopeEntity),
		update: func(ctx Context) {
			if ctx.Entity != e {
				t.Fatalf("entity script got wrong entity")
			}
			calls = append(calls, "entity_update")
		},
		input: func(Context, Event) { calls = append(calls, "entity_input") },
	}
	worldScript := &funcScript{
		BaseScript: NewBaseScript("director", ScopeWorld),
		update:     func(Context) { calls = append(calls, "world_update") },
		input:      func(Context, Event) { calls = append(calls, "world_input") },
	}

	if err := w.AddScript(entityScript); !errors.Is(err, ErrScriptScope) {
		t.Fatalf("expected scope error for entity script on world, got %v", err)
	}
	if err := e.AddScript(worldScript); !errors.Is(err, ErrScriptScope) {
		t.Fatalf("expected scope error for world script on entity, got %v", err)
	}
	if err := e.AddScript(entityScript); err != nil {
		t.Fatalf("add entity script: %v", err)
	}
	if err := w.AddScript(worldScript); err != nil {
		t.Fatalf("add world script: %v", err)
	}

	w.TakeInput(Event{Type: EventKeyDown, Key: "Space"})
	w.Run()

	want := []string{"world_input", "entity_input", "entity_update", "world_update"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}

	if !e.RemoveScript("mover") || e.RemoveScript("mover") {
		t.Fatalf("expected script removed exactly once")
	}
}

func TestDestroyDuringFrameIsDeferred(t *testing.T) {
	var order []string
	scene := &recordingSystem{tag: "render", log: &order}
	w := NewWorld("deferred", nil)
	w.AddSystem(scene)
	if err := w.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	victim := w.CreateGameObject(testSprite{4, 4})
	killer := w.CreateEntity()
	var seenAlive bool
	var countDuring int
	_ = killer.AddScript(&funcScript{
		BaseScript: NewBaseScript("killer", ScopeEntity),
		update: func(ctx Context) {
			if err := ctx.World.DestroyEntity(victim); err != nil {
				t.Fatalf("destroy: %v", err)
			}
			seenAlive = victim.Alive()
			countDuring = ctx.World.EntityCount()
		},
	})

	w.Run()

	if seenAlive {
		t.Fatalf("victim should be hidden as soon as it is destroyed")
	}
	if countDuring != 2 {
		t.Fatalf("expected victim to stay registered until frame end, got %d entities", countDuring)
	}
	if w.EntityCount() != 1 {
		t.Fatalf("expected victim removed after frame, got %d entities", w.EntityCount())
	}
	if len(scene.removed) != 1 || scene.removed[0] != victim {
		t.Fatalf("expected victim removed from scene")
	}
	if len(scene.inserted) != 1 || scene.inserted[0] != victim {
		t.Fatalf("expected renderer inserted into loaded scene")
	}
	if next := w.CreateEntity(); next.ID() != victim.ID() {
		t.Fatalf("expected victim id %d recycled, got %d", victim.ID(), next.ID())
	}
}

func TestLoadRunsOnce(t *testing.T) {
	var order []string
	scene := &recordingSystem{tag: "render", log: &order}
	loads := 0
	w := NewWorld("once", LevelFunc(func(w *World) error {
		loads++
		w.CreateEntity()
		return nil
	}))
	w.AddSystem(scene)

	for i := 0; i < 3; i++ {
		if err := w.Load(); err != nil {
			t.Fatalf("load: %v", err)
		}
	}
	if loads != 1 || scene.built != 1 {
		t.Fatalf("expected one load and one scene build, got %d and %d", loads, scene.built)
	}

	failing := NewWorld("broken", LevelFunc(func(*World) error { return ErrComponentNotFound }))
	if err := failing.Load(); !errors.Is(err, ErrComponentNotFound) || failing.Loaded() {
		t.Fatalf("expected wrapped level error and unloaded world, got %v", err)
	}
}

func TestLookupsAndProperties(t *testing.T) {
	w := NewWorld("lookup", nil)
	a := w.CreateEntity()
	a.Tag, a.Name = "brick", "b1"
	b := w.CreateEntity()
	b.Tag, b.Name = "brick", "b2"
	w.CreateEntity().Tag = "ball"

	if got := len(w.FindByTag("brick")); got != 2 {
		t.Fatalf("expected 2 bricks, got %d", got)
	}
	if w.FindByName("b2") != b {
		t.Fatalf("expected to find b2 by name")
	}

	w.SetProperty("score", 10)
	if got := w.AddProperty("score", 5); got != 15 {
		t.Fatalf("expected score 15, got %v", got)
	}
	if w.Property("lives") != 0 || w.HasProperty("lives") {
		t.Fatalf("missing property should read zero")
	}

	if w.Bounds().IsBounded() {
		t.Fatalf("new worlds are unbounded")
	}
	w.SetBounds(Bounds{Width: 640, Height: 0})
	if w.Bounds().IsBounded() {
		t.Fatalf("zero height should be unbounded")
	}
	w.SetBounds(Bounds{Width: 640, Height: 480})
	if !w.Bounds().IsBounded() {
		t.Fatalf("expected bounded world")
	}
}
