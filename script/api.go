package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/component"
	"github.com/milk9111/nybble/ecs/system"
)

var errNoEngine = errors.New("script: engine call unavailable")

type userFn func(args ...tengo.Object) (tengo.Object, error)

func fn(name string, f userFn) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: tengo.CallableFunc(f)}
}

func vecObject(v common.Vec2) tengo.Object {
	return &tengo.Map{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: v.X},
		"y": &tengo.Float{Value: v.Y},
	}}
}

func floatArgs(name string, args []tengo.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, tengo.ErrWrongNumArguments
	}
	out := make([]float64, n)
	for i, a := range args {
		f, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("%s arg %d", name, i+1), Expected: "number", Found: a.TypeName()}
		}
		out[i] = f
	}
	return out, nil
}

func stringArg(name string, args []tengo.Object) (string, error) {
	if len(args) != 1 {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := tengo.ToString(args[0])
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: name, Expected: "string", Found: args[0].TypeName()}
	}
	return s, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func eventObject(ev ecs.Event) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"type":   &tengo.String{Value: ev.Type.String()},
		"key":    &tengo.String{Value: ev.Key},
		"button": &tengo.Int{Value: int64(ev.Button)},
		"x":      &tengo.Float{Value: ev.X},
		"y":      &tengo.Float{Value: ev.Y},
	}}
}

func collisionObject(env *Env, w *ecs.World, other ecs.Collision) tengo.Object {
	if other.Entity == nil {
		return tengo.UndefinedValue
	}
	obj := entityObject(env, w, other.Entity)
	if other.Collider != nil {
		obj.Value["shape"] = &tengo.String{Value: other.Collider.Shape().String()}
		obj.Value["trigger"] = boolObject(other.Collider.Properties().IsTrigger)
	}
	return obj
}

func entityOrUndefined(env *Env, w *ecs.World, e *ecs.Entity) tengo.Object {
	if e == nil {
		return tengo.UndefinedValue
	}
	return entityObject(env, w, e)
}

// entityFromObject resolves an entity handle or an entity name passed
// back from a script.
func entityFromObject(w *ecs.World, obj tengo.Object) (*ecs.Entity, bool) {
	switch v := obj.(type) {
	case *tengo.String:
		e := w.FindByName(v.Value)
		return e, e != nil
	case *tengo.ImmutableMap:
		id, ok := tengo.ToInt(v.Value["id"])
		if !ok {
			return nil, false
		}
		return w.Entity(id)
	}
	return nil, false
}

func entityObject(env *Env, w *ecs.World, e *ecs.Entity) *tengo.ImmutableMap {
	v := map[string]tengo.Object{
		"id":   &tengo.Int{Value: int64(e.ID())},
		"name": &tengo.String{Value: e.Name},
		"tag":  &tengo.String{Value: e.Tag},
	}

	v["alive"] = fn("alive", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(e.Alive()), nil
	})
	v["position"] = fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		if t := e.Transform(); t != nil {
			return vecObject(t.Position), nil
		}
		return tengo.UndefinedValue, nil
	})
	v["set_position"] = fn("set_position", func(args ...tengo.Object) (tengo.Object, error) {
		xy, err := floatArgs("set_position", args, 2)
		if err != nil {
			return nil, err
		}
		if t := e.Transform(); t != nil {
			t.Position = common.V(xy[0], xy[1])
		}
		return tengo.UndefinedValue, nil
	})
	v["move"] = fn("move", func(args ...tengo.Object) (tengo.Object, error) {
		d, err := floatArgs("move", args, 2)
		if err != nil {
			return nil, err
		}
		if t := e.Transform(); t != nil {
			t.Position = t.Position.Add(common.V(d[0], d[1]))
		}
		return tengo.UndefinedValue, nil
	})
	v["velocity"] = fn("velocity", func(args ...tengo.Object) (tengo.Object, error) {
		if rb := e.RigidBody(); rb != nil {
			return vecObject(rb.Velocity), nil
		}
		return vecObject(common.Vec2{}), nil
	})
	v["set_velocity"] = fn("set_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		xy, err := floatArgs("set_velocity", args, 2)
		if err != nil {
			return nil, err
		}
		if rb := e.RigidBody(); rb != nil {
			rb.Velocity = common.V(xy[0], xy[1])
		}
		return tengo.UndefinedValue, nil
	})
	v["set_gravity"] = fn("set_gravity", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		if rb := e.RigidBody(); rb != nil {
			rb.GravityEnabled = !args[0].IsFalsy()
		}
		return tengo.UndefinedValue, nil
	})
	v["size"] = fn("size", func(args ...tengo.Object) (tengo.Object, error) {
		var w, h float64
		switch c := e.Collider().(type) {
		case *component.BoxCollider:
			w, h = c.Width, c.Height
		case *component.CircleCollider:
			w, h = 2*c.Radius, 2*c.Radius
		}
		return &tengo.Map{Value: map[string]tengo.Object{
			"w": &tengo.Float{Value: w},
			"h": &tengo.Float{Value: h},
		}}, nil
	})
	v["set_tag"] = fn("set_tag", func(args ...tengo.Object) (tengo.Object, error) {
		tag, err := stringArg("set_tag", args)
		if err != nil {
			return nil, err
		}
		e.Tag = tag
		return tengo.UndefinedValue, nil
	})
	v["play"] = fn("play", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("play", args)
		if err != nil {
			return nil, err
		}
		a := e.Animator()
		return boolObject(a != nil && a.PlayNamed(name)), nil
	})
	v["set_depth"] = fn("set_depth", func(args ...tengo.Object) (tengo.Object, error) {
		d, err := floatArgs("set_depth", args, 1)
		if err != nil {
			return nil, err
		}
		if r, ok := w.System(system.RenderTag).(*system.RenderSystem); ok {
			r.UpdateDepth(e, int(d[0]))
		} else if rend := e.Renderer(); rend != nil {
			rend.Depth = int(d[0])
		}
		return tengo.UndefinedValue, nil
	})
	v["destroy"] = fn("destroy", func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(w.DestroyEntity(e) == nil), nil
	})

	return &tengo.ImmutableMap{Value: v}
}

func worldObject(env *Env, w *ecs.World) tengo.Object {
	if w == nil {
		return tengo.UndefinedValue
	}
	v := map[string]tengo.Object{
		"name": &tengo.String{Value: w.Name},
	}

	v["find"] = fn("find", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("find", args)
		if err != nil {
			return nil, err
		}
		return entityOrUndefined(env, w, w.FindByName(name)), nil
	})
	v["find_tag"] = fn("find_tag", func(args ...tengo.Object) (tengo.Object, error) {
		tag, err := stringArg("find_tag", args)
		if err != nil {
			return nil, err
		}
		found := w.FindByTag(tag)
		out := make([]tengo.Object, 0, len(found))
		for _, e := range found {
			out = append(out, entityObject(env, w, e))
		}
		return &tengo.Array{Value: out}, nil
	})
	v["count_tag"] = fn("count_tag", func(args ...tengo.Object) (tengo.Object, error) {
		tag, err := stringArg("count_tag", args)
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(len(w.FindByTag(tag)))}, nil
	})
	v["get"] = fn("get", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("get", args)
		if err != nil {
			return nil, err
		}
		return &tengo.Float{Value: w.Property(name)}, nil
	})
	v["set"] = fn("set", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, _ := tengo.ToString(args[0])
		val, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "set value", Expected: "number", Found: args[1].TypeName()}
		}
		w.SetProperty(name, val)
		return tengo.UndefinedValue, nil
	})
	v["add"] = fn("add", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, _ := tengo.ToString(args[0])
		delta, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "add delta", Expected: "number", Found: args[1].TypeName()}
		}
		return &tengo.Float{Value: w.AddProperty(name, delta)}, nil
	})
	v["bounds"] = fn("bounds", func(args ...tengo.Object) (tengo.Object, error) {
		b := w.Bounds()
		return &tengo.Map{Value: map[string]tengo.Object{
			"x":       &tengo.Float{Value: b.Origin.X},
			"y":       &tengo.Float{Value: b.Origin.Y},
			"width":   &tengo.Float{Value: b.Width},
			"height":  &tengo.Float{Value: b.Height},
			"bounded": boolObject(b.IsBounded()),
		}}, nil
	})
	v["screen"] = fn("screen", func(args ...tengo.Object) (tengo.Object, error) {
		c := w.Canvas()
		if c == nil {
			return tengo.UndefinedValue, nil
		}
		sw, sh := c.Size()
		return &tengo.Map{Value: map[string]tengo.Object{
			"width":  &tengo.Float{Value: float64(sw)},
			"height": &tengo.Float{Value: float64(sh)},
		}}, nil
	})
	v["camera"] = fn("camera", func(args ...tengo.Object) (tengo.Object, error) {
		if r, ok := w.System(system.RenderTag).(*system.RenderSystem); ok {
			return entityOrUndefined(env, w, r.Camera()), nil
		}
		return tengo.UndefinedValue, nil
	})
	v["set_camera"] = fn("set_camera", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		r, ok := w.System(system.RenderTag).(*system.RenderSystem)
		if !ok {
			return tengo.FalseValue, nil
		}
		e, ok := entityFromObject(w, args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		r.SetCamera(e)
		return tengo.TrueValue, nil
	})
	v["spawn"] = fn("spawn", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		prefab, _ := tengo.ToString(args[0])
		xy, err := floatArgs("spawn", args[1:], 2)
		if err != nil {
			return nil, err
		}
		if env.Spawn == nil {
			return nil, errNoEngine
		}
		e, err := env.Spawn(w, prefab, common.V(xy[0], xy[1]))
		if err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return entityObject(env, w, e), nil
	})
	v["switch"] = fn("switch", func(args ...tengo.Object) (tengo.Object, error) {
		name, err := stringArg("switch", args)
		if err != nil {
			return nil, err
		}
		if env.SwitchWorld == nil {
			return nil, errNoEngine
		}
		if err := env.SwitchWorld(name); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	})
	v["submit_score"] = fn("submit_score", func(args ...tengo.Object) (tengo.Object, error) {
		s, err := floatArgs("submit_score", args, 1)
		if err != nil {
			return nil, err
		}
		if env.SubmitScore == nil {
			return tengo.FalseValue, nil
		}
		if err := env.SubmitScore(w.Name, int(s[0])); err != nil {
			log.Warn("submit score", "world", w.Name, "err", err)
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	})
	v["log"] = fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Info(strings.Join(parts, " "), "world", w.Name)
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: v}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	default:
		return nil
	}
}
