package entity

import (
	"fmt"
	"image/color"
	"io/fs"
	"sort"

	"github.com/milk9111/nybble/assets"
	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
	"github.com/milk9111/nybble/ecs/render"
	"github.com/milk9111/nybble/prefabs"
)

// ScriptFactory creates an entity script by name.
type ScriptFactory func(name string) (ecs.Script, error)

// Builder turns prefab specs into entities.
type Builder struct {
	Images     render.ImageSource
	Animations *render.AnimationLibrary
	// Assets holds animation frame directories.
	Assets  fs.FS
	Scripts ScriptFactory
}

func NewBuilder(images render.ImageSource, scripts ScriptFactory) *Builder {
	return &Builder{
		Images:     images,
		Animations: render.NewAnimationLibrary(),
		Assets:     assets.FS(),
		Scripts:    scripts,
	}
}

type buildContext struct {
	PrefabPath string
	// pivotSet records an explicit pivot so animation frames keep it.
	pivotSet bool
}

type componentBuildFn func(b *Builder, e *ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":       addTransform,
	"renderer":        addRenderer,
	"animator":        addAnimator,
	"box_collider":    addBoxCollider,
	"circle_collider": addCircleCollider,
	"rigid_body":      addRigidBody,
	"input":           addInput,
}

// Colliders size themselves from the sprite, so they follow the renderer
// and animator.
var componentBuildOrder = []string{
	"transform",
	"renderer",
	"animator",
	"box_collider",
	"circle_collider",
	"rigid_body",
	"input",
}

// Build loads a prefab, applies overrides to its components and adds the
// result to w.
func (b *Builder) Build(w *ecs.World, prefabPath string, overrides map[string]any) (*ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return nil, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(overrides) > 0 {
		spec.Components = prefabs.MergeComponents(spec.Components, overrides)
	}
	return b.BuildSpec(w, spec, prefabPath)
}

// Spawn builds a prefab centred on pos.
func (b *Builder) Spawn(w *ecs.World, prefabPath string, pos common.Vec2) (*ecs.Entity, error) {
	return b.Build(w, prefabPath, map[string]any{
		"transform": map[string]any{"x": pos.X, "y": pos.Y},
	})
}

// BuildSpec builds an entity from an already decoded spec. Nothing is added
// to w unless every component and script builds.
func (b *Builder) BuildSpec(w *ecs.World, spec prefabs.EntityBuildSpec, source string) (*ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return nil, fmt.Errorf("build entity: prefab %q does not define components", source)
	}

	var unknown []string
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("build entity: %q: no builder for components %v", source, unknown)
	}

	e := ecs.NewEntity()
	e.Name = spec.Name
	e.Tag = spec.Tag
	ctx := &buildContext{PrefabPath: source}

	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](b, e, raw, ctx); err != nil {
			return nil, fmt.Errorf("build entity: %q: add %q: %w", source, name, err)
		}
	}

	for _, name := range spec.Scripts {
		if b.Scripts == nil {
			return nil, fmt.Errorf("build entity: %q: no script factory for %q", source, name)
		}
		s, err := b.Scripts(name)
		if err != nil {
			return nil, fmt.Errorf("build entity: %q: script %q: %w", source, name, err)
		}
		if err := e.AddScript(s); err != nil {
			return nil, fmt.Errorf("build entity: %q: %w", source, err)
		}
	}

	if err := w.AddEntity(e); err != nil {
		return nil, err
	}
	return e, nil
}

// SetEntityTransform places e, adding a transform when it has none.
func SetEntityTransform(e *ecs.Entity, x, y, rotation float64) error {
	t := e.Transform()
	if t == nil {
		t = component.NewTransform(common.Vec2{})
		if err := e.AddComponent(t); err != nil {
			return err
		}
	}
	t.Position = common.V(x, y)
	t.Rotation = rotation
	return nil
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(_ *Builder, e *ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(common.V(spec.X, spec.Y))
	t.Rotation = spec.Rotation
	if spec.ScaleX != 0 {
		t.Scale.X = spec.ScaleX
	}
	if spec.ScaleY != 0 {
		t.Scale.Y = spec.ScaleY
	}
	return e.AddComponent(t)
}

type rendererSpec = prefabs.RendererComponentSpec

func addRenderer(b *Builder, e *ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rendererSpec](raw)
	if err != nil {
		return fmt.Errorf("decode renderer spec: %w", err)
	}

	var sprite render.Sprite
	switch {
	case spec.Image != "":
		sprite, err = render.LoadImage(b.Images, spec.Image)
		if err != nil {
			return fmt.Errorf("load image %q: %w", spec.Image, err)
		}
	case spec.Solid != nil:
		sprite, err = b.solid(*spec.Solid)
		if err != nil {
			return err
		}
	}

	r := component.NewCenteredRenderer(sprite)
	if spec.PivotX != nil || spec.PivotY != nil {
		ctx.pivotSet = true
		if spec.PivotX != nil {
			r.Pivot.X = *spec.PivotX
		}
		if spec.PivotY != nil {
			r.Pivot.Y = *spec.PivotY
		}
	}
	r.Depth = spec.Depth
	r.Static = spec.Static
	return e.AddComponent(r)
}

// solid returns a flat colour sprite, shared by every renderer asking for
// the same size and colour.
func (b *Builder) solid(spec prefabs.SolidImageSpec) (render.Sprite, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("solid image needs a positive size, got %dx%d", spec.Width, spec.Height)
	}
	clr := color.Color(color.White)
	if spec.Color != "" {
		parsed, err := prefabs.ParseHexColor(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("parse solid color: %w", err)
		}
		clr = parsed
	}
	key := fmt.Sprintf("solid:%dx%d:%s", spec.Width, spec.Height, spec.Color)
	if img := render.GetImage(key); img != nil {
		return img, nil
	}
	img := b.Images.Solid(spec.Width, spec.Height, clr)
	render.RegisterImage(key, img)
	return img, nil
}

type animatorSpec = prefabs.AnimatorComponentSpec

func addAnimator(b *Builder, e *ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animatorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animator spec: %w", err)
	}

	a := &component.Animator{}
	for _, as := range spec.Animations {
		strip, err := b.strip(as)
		if err != nil {
			return err
		}
		anim := component.AnimationFromStrip(strip)
		if as.Name != "" {
			anim.Name = as.Name
		}
		if as.Loop != nil {
			anim.Loop = *as.Loop
		}
		a.AddAnimation(anim)
	}

	if spec.Play != "" {
		if !a.PlayNamed(spec.Play) {
			return fmt.Errorf("animator has no animation %q", spec.Play)
		}
		if r := e.Renderer(); r != nil && r.Sprite == nil && len(a.Current.Frames) > 0 {
			first := a.Current.Frames[0]
			r.Sprite, r.Original = first, first
			if !ctx.pivotSet {
				w, h := render.SpriteSize(first)
				r.Pivot = common.V(w/2, h/2)
			}
		}
	}
	return e.AddComponent(a)
}

func (b *Builder) strip(spec prefabs.AnimationComponentSpec) (render.Strip, error) {
	if spec.Dir == "" {
		return render.Strip{}, fmt.Errorf("animation %q has no frame directory", spec.Name)
	}
	key := fmt.Sprintf("%s@%g", spec.Dir, spec.Latency)
	if strip, ok := b.Animations.Get(key); ok {
		return strip, nil
	}
	strip, err := render.LoadStrip(b.Images, b.Assets, spec.Dir, spec.Latency)
	if err != nil {
		return render.Strip{}, err
	}
	if len(strip.Frames) == 0 {
		return render.Strip{}, fmt.Errorf("animation %q: no frames in %s", spec.Name, spec.Dir)
	}
	b.Animations.Register(key, strip)
	return strip, nil
}

type boxColliderSpec = prefabs.BoxColliderComponentSpec

func addBoxCollider(_ *Builder, e *ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[boxColliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode box collider spec: %w", err)
	}
	width, height := spec.Width, spec.Height
	if width == 0 || height == 0 {
		var sw, sh float64
		if r := e.Renderer(); r != nil {
			sw, sh = render.SpriteSize(r.Sprite)
		}
		if width == 0 {
			width = sw
		}
		if height == 0 {
			height = sh
		}
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("box collider needs a size or a sprite to fit")
	}

	c := component.NewBoxCollider(width, height)
	c.Offset = common.V(spec.OffsetX, spec.OffsetY)
	applyMaterial(&c.Material, spec.MaterialSpec)
	return e.AddComponent(c)
}

type circleColliderSpec = prefabs.CircleColliderComponentSpec

func addCircleCollider(_ *Builder, e *ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[circleColliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode circle collider spec: %w", err)
	}
	radius := spec.Radius
	if radius == 0 {
		if r := e.Renderer(); r != nil {
			w, h := render.SpriteSize(r.Sprite)
			radius = max(w, h) / 2
		}
	}
	if radius <= 0 {
		return fmt.Errorf("circle collider needs a radius or a sprite to fit")
	}

	c := component.NewCircleCollider(radius)
	applyMaterial(&c.Material, spec.MaterialSpec)
	return e.AddComponent(c)
}

func applyMaterial(m *component.Material, spec prefabs.MaterialSpec) {
	if spec.SurfaceFriction != nil {
		m.SurfaceFriction = *spec.SurfaceFriction
	}
	m.Restitution = spec.Restitution
	m.IsTrigger = spec.Trigger
	m.TreatAsDynamic = spec.Dynamic
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(_ *Builder, e *ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	rb := component.NewRigidBody(common.V(spec.VelocityX, spec.VelocityY), spec.Mass)
	if spec.GravityScale != 0 {
		rb.GravityScale = spec.GravityScale
	}
	if spec.GravityEnabled != nil {
		rb.GravityEnabled = *spec.GravityEnabled
	}
	return e.AddComponent(rb)
}

func addInput(_ *Builder, e *ecs.Entity, _ any, _ *buildContext) error {
	return e.AddComponent(&component.Input{})
}
