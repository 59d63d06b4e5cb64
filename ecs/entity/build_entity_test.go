package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
	"github.com/milk9111/nybble/ecs/render"
	"github.com/milk9111/nybble/prefabs"
)

type namedScript struct {
	ecs.BaseScript
}

func testBuilder() *Builder {
	return NewBuilder(render.HeadlessImages{}, func(name string) (ecs.Script, error) {
		if name == "missing" {
			return nil, errors.New("no such script")
		}
		return &namedScript{BaseScript: ecs.NewBaseScript(name, ecs.ScopeEntity)}, nil
	})
}

func TestBuildSpec(t *testing.T) {
	w := ecs.NewWorld("build", nil)
	b := testBuilder()

	e, err := b.BuildSpec(w, prefabs.EntityBuildSpec{
		Name: "paddle",
		Tag:  "paddle",
		Components: map[string]any{
			"transform": map[string]any{"x": 40, "y": 60},
			"renderer": map[string]any{
				"solid": map[string]any{"width": 100, "height": 14, "color": "#ffffff"},
				"depth": 2,
			},
			"box_collider": map[string]any{"restitution": 1},
			"input":        map[string]any{},
		},
		Scripts: []string{"paddle"},
	}, "inline")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !e.Alive() || e.World() != w || e.Name != "paddle" || e.Tag != "paddle" {
		t.Fatalf("entity not registered: %v", e)
	}
	if got := e.Transform().Position; got != common.V(40, 60) {
		t.Fatalf("position = %v", got)
	}
	r := e.Renderer()
	if r.Depth != 2 || r.Pivot != common.V(50, 7) {
		t.Fatalf("renderer = %+v", r)
	}
	box, ok := e.Collider().(*component.BoxCollider)
	if !ok || box.Width != 100 || box.Height != 14 || box.Restitution != 1 || box.SurfaceFriction != 1 {
		t.Fatalf("collider = %+v", e.Collider())
	}
	if !e.HasComponent(component.KindInput) {
		t.Fatalf("input tag missing")
	}
	if _, ok := e.Script("paddle"); !ok {
		t.Fatalf("script not attached")
	}
}

func TestBuildFailuresLeaveWorldUntouched(t *testing.T) {
	cases := []struct {
		name string
		spec prefabs.EntityBuildSpec
	}{
		{"no components", prefabs.EntityBuildSpec{}},
		{"unknown component", prefabs.EntityBuildSpec{Components: map[string]any{
			"transform": map[string]any{},
			"jetpack":   map[string]any{},
		}}},
		{"collider without transform", prefabs.EntityBuildSpec{Components: map[string]any{
			"box_collider": map[string]any{"width": 4, "height": 4},
		}}},
		{"box with nothing to fit", prefabs.EntityBuildSpec{Components: map[string]any{
			"transform":    map[string]any{},
			"box_collider": map[string]any{},
		}}},
		{"bad colour", prefabs.EntityBuildSpec{Components: map[string]any{
			"renderer": map[string]any{"solid": map[string]any{"width": 4, "height": 4, "color": "red"}},
		}}},
		{"missing script", prefabs.EntityBuildSpec{
			Components: map[string]any{"transform": map[string]any{}},
			Scripts:    []string{"missing"},
		}},
	}

	w := ecs.NewWorld("build", nil)
	b := testBuilder()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := b.BuildSpec(w, tc.spec, tc.name); err == nil {
				t.Fatalf("expected error")
			}
			if w.EntityCount() != 0 {
				t.Fatalf("world has %d entities", w.EntityCount())
			}
		})
	}
}

func TestBuildEmbeddedPrefabs(t *testing.T) {
	w := ecs.NewWorld("build", nil)
	b := testBuilder()

	ball, err := b.Spawn(w, "ball", common.V(300, 200))
	if err != nil {
		t.Fatalf("spawn ball: %v", err)
	}
	if got := ball.Transform().Position; got != common.V(300, 200) {
		t.Fatalf("ball position = %v", got)
	}
	circle, ok := ball.Collider().(*component.CircleCollider)
	if !ok || circle.Radius != 6 {
		t.Fatalf("ball collider = %+v", ball.Collider())
	}
	if rb := ball.RigidBody(); rb == nil || rb.GravityEnabled || rb.Velocity != common.V(160, -260) {
		t.Fatalf("ball body = %+v", ball.RigidBody())
	}

	player, err := b.Build(w, "player", map[string]any{
		"transform": map[string]any{"x": 10},
	})
	if err != nil {
		t.Fatalf("build player: %v", err)
	}
	a := player.Animator()
	if a == nil || a.Current == nil || a.Current.Name != "idle" {
		t.Fatalf("animator = %+v", a)
	}
	if run := a.Animations["run"]; run == nil || len(run.Frames) != 3 {
		t.Fatalf("run animation = %+v", a.Animations["run"])
	}
	r := player.Renderer()
	if r.Sprite == nil || r.Original != r.Sprite || r.Pivot != common.V(7, 10) {
		t.Fatalf("player renderer = %+v", r)
	}
	box := player.Collider().(*component.BoxCollider)
	if box.Width != 14 || box.Height != 20 || box.SurfaceFriction != 0.85 {
		t.Fatalf("player collider = %+v", box)
	}

	ladder, err := b.Build(w, "ladder", nil)
	if err != nil {
		t.Fatalf("build ladder: %v", err)
	}
	if !ladder.Collider().Properties().IsTrigger {
		t.Fatalf("ladder is not a trigger")
	}
}

func TestSolidImagesAreShared(t *testing.T) {
	w := ecs.NewWorld("build", nil)
	b := testBuilder()
	spec := prefabs.EntityBuildSpec{Components: map[string]any{
		"transform": map[string]any{},
		"renderer":  map[string]any{"solid": map[string]any{"width": 7, "height": 3, "color": "#123456"}},
	}}
	first, err := b.BuildSpec(w, spec, "a")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := b.BuildSpec(w, spec, "b")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if first.Renderer().Sprite != second.Renderer().Sprite {
		t.Fatalf("solid sprites not shared")
	}
}

func TestSetEntityTransform(t *testing.T) {
	e := ecs.NewEntity()
	if err := SetEntityTransform(e, 3, 4, 90); err != nil {
		t.Fatalf("set: %v", err)
	}
	tr := e.Transform()
	if tr.Position != common.V(3, 4) || tr.Rotation != 90 || tr.Scale != common.V(1, 1) {
		t.Fatalf("transform = %+v", tr)
	}
}
