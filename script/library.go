package script

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/nybble/common"
	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/prefabs"
)

// Env connects scripts to the parts of the engine that live above a
// single world. Nil fields make the matching script calls fail.
type Env struct {
	Spawn       func(w *ecs.World, prefab string, pos common.Vec2) (*ecs.Entity, error)
	SwitchWorld func(name string) error
	SubmitScore func(level string, score int) error
}

// Library compiles scripts once by name and hands out instances.
type Library struct {
	programs map[string]*Program
	load     func(name string) ([]byte, error)
	env      *Env
	logger   *log.Logger
}

func NewLibrary(env *Env) *Library {
	if env == nil {
		env = &Env{}
	}
	return &Library{
		programs: make(map[string]*Program),
		load:     prefabs.LoadScript,
		env:      env,
		logger:   log.Default(),
	}
}

// SetSource replaces how script source is read.
func (l *Library) SetSource(load func(name string) ([]byte, error)) {
	if load != nil {
		l.load = load
	}
}

func (l *Library) SetLogger(logger *log.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Program returns the compiled script, compiling it on first use.
func (l *Library) Program(name string) (*Program, error) {
	if p, ok := l.programs[name]; ok {
		return p, nil
	}
	src, err := l.load(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	p, err := compileProgram(name, src, 1)
	if err != nil {
		return nil, err
	}
	l.programs[name] = p
	return p, nil
}

// Reload recompiles a script that was already loaded. Running instances
// switch to the new program on their next callback and keep their state.
// On a compile error the previous program stays in use.
func (l *Library) Reload(name string) error {
	old, ok := l.programs[name]
	if !ok {
		return nil
	}
	src, err := l.load(name)
	if err != nil {
		return fmt.Errorf("script: reload %s: %w", name, err)
	}
	p, err := compileProgram(name, src, old.version+1)
	if err != nil {
		return err
	}
	l.programs[name] = p
	l.logger.Info("script reloaded", "script", name, "version", p.version)
	return nil
}

// New creates a script instance with its own state.
func (l *Library) New(name string, scope ecs.Scope) (*TengoScript, error) {
	p, err := l.Program(name)
	if err != nil {
		return nil, err
	}
	return &TengoScript{
		name:     name,
		scope:    scope,
		lib:      l,
		program:  p,
		compiled: p.compiled.Clone(),
		state:    newStateMap(),
	}, nil
}

// EntityFactory adapts New for builders that attach entity scripts by name.
func (l *Library) EntityFactory() func(name string) (ecs.Script, error) {
	return func(name string) (ecs.Script, error) {
		s, err := l.New(name, ecs.ScopeEntity)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
