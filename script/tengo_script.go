package script

import (
	"github.com/d5/tengo/v2"

	"github.com/milk9111/nybble/ecs"
)

// TengoScript runs a compiled tengo program as an ecs.Script. The program
// declares any of init, update, take_input(event) and collision(other);
// undeclared hooks cost nothing. init runs once before the first other
// hook. The state map survives between calls and across reloads.
type TengoScript struct {
	name     string
	scope    ecs.Scope
	lib      *Library
	program  *Program
	compiled *tengo.Compiled
	state    *tengo.Map
	started  bool
}

func newStateMap() *tengo.Map {
	return &tengo.Map{Value: map[string]tengo.Object{}}
}

func (s *TengoScript) Name() string     { return s.name }
func (s *TengoScript) Scope() ecs.Scope { return s.scope }

func (s *TengoScript) Update(ctx ecs.Context) {
	s.dispatch(hookUpdate, ctx, nil, tengo.UndefinedValue)
}

func (s *TengoScript) TakeInput(ctx ecs.Context, ev ecs.Event) {
	s.dispatch(hookInput, ctx, eventObject(ev), tengo.UndefinedValue)
}

func (s *TengoScript) CollisionEvent(ctx ecs.Context, other ecs.Collision) {
	s.dispatch(hookCollision, ctx, nil, collisionObject(s.lib.env, ctx.World, other))
}

// State returns a Go copy of the script's state map.
func (s *TengoScript) State() map[string]any {
	out, _ := objectToAny(s.state).(map[string]any)
	return out
}

func (s *TengoScript) refresh() {
	latest, ok := s.lib.programs[s.name]
	if !ok || latest == s.program {
		return
	}
	s.program = latest
	s.compiled = latest.compiled.Clone()
}

func (s *TengoScript) dispatch(hook string, ctx ecs.Context, event, other tengo.Object) {
	s.refresh()
	if !s.program.Has(hook) {
		return
	}
	if !s.started {
		s.started = true
		if s.program.Has(hookInit) {
			s.run(hookInit, ctx, nil, tengo.UndefinedValue)
		}
	}
	s.run(hook, ctx, event, other)
}

func (s *TengoScript) run(hook string, ctx ecs.Context, event, other tengo.Object) {
	self := tengo.Object(tengo.UndefinedValue)
	if ctx.Entity != nil {
		self = entityObject(s.lib.env, ctx.World, ctx.Entity)
	}
	if event == nil {
		event = &tengo.Map{Value: map[string]tengo.Object{}}
	}

	c := s.compiled
	_ = c.Set("__phase", hook)
	_ = c.Set("self", self)
	_ = c.Set("world", worldObject(s.lib.env, ctx.World))
	_ = c.Set("state", s.state)
	_ = c.Set("event", event)
	_ = c.Set("other", other)
	_ = c.Set("dt", ctx.DT)

	if err := c.Run(); err != nil {
		s.lib.logger.Error("script error", "script", s.name, "hook", hook, "err", err)
	}
}
