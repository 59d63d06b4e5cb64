package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const (
	hookInit      = "init"
	hookUpdate    = "update"
	hookInput     = "take_input"
	hookCollision = "collision"
)

// dispatch order and the argument each hook receives.
var hookArgs = []struct {
	name string
	arg  string
}{
	{hookInit, ""},
	{hookUpdate, ""},
	{hookInput, "event"},
	{hookCollision, "other"},
}

var hookPattern = regexp.MustCompile(`(?m)^\s*(init|update|take_input|collision)\s*:=\s*func\b`)

// Program is a compiled script. Instances run clones of it so each keeps
// its own globals.
type Program struct {
	Name     string
	compiled *tengo.Compiled
	hooks    map[string]bool
	version  int
}

func compileProgram(name string, src []byte, version int) (*Program, error) {
	hooks := make(map[string]bool)
	for _, m := range hookPattern.FindAllStringSubmatch(string(src), -1) {
		hooks[m[1]] = true
	}

	full := string(src) + "\n" + dispatchFooter(hooks)
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("self", tengo.UndefinedValue)
	_ = s.Add("world", tengo.UndefinedValue)
	_ = s.Add("state", map[string]any{})
	_ = s.Add("event", map[string]any{})
	_ = s.Add("other", tengo.UndefinedValue)
	_ = s.Add("dt", 0.0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Program{Name: name, compiled: compiled, hooks: hooks, version: version}, nil
}

// Has reports whether the script defines hook.
func (p *Program) Has(hook string) bool {
	return p.hooks[hook]
}

func dispatchFooter(hooks map[string]bool) string {
	var b strings.Builder
	first := true
	for _, h := range hookArgs {
		if !hooks[h.name] {
			continue
		}
		if first {
			b.WriteString("if ")
			first = false
		} else {
			b.WriteString(" else if ")
		}
		fmt.Fprintf(&b, "__phase == %q {\n\t%s(%s)\n}", h.name, h.name, h.arg)
	}
	b.WriteString("\n")
	return b.String()
}
