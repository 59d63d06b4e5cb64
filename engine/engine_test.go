package engine

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/nybble/ecs"
	"github.com/milk9111/nybble/ecs/render"
	"github.com/milk9111/nybble/storage"
)

type countScript struct {
	ecs.BaseScript
	updates int
	inputs  []string
}

func (s *countScript) Update(ecs.Context) { s.updates++ }
func (s *countScript) TakeInput(_ ecs.Context, ev ecs.Event) {
	s.inputs = append(s.inputs, ev.Key)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(DefaultConfig(), render.HeadlessImages{})
}

func newCountingWorld(t *testing.T, e *Engine, name string) *countScript {
	t.Helper()
	w := e.NewWorld(name, nil)
	s := &countScript{BaseScript: ecs.NewBaseScript("counter", ecs.ScopeWorld)}
	if err := w.AddScript(s); err != nil {
		t.Fatalf("AddScript: %v", err)
	}
	e.AddWorld(w)
	return s
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTimestep(t *testing.T) {
	ts := NewTimestep(0.05)
	steps := []struct {
		now  time.Duration
		dt   float64
		runs bool
	}{
		{ms(100), 0, true},
		{ms(110), 0.01, true},
		{ms(180), 0, false},
		{ms(200), 0.02, true},
		{ms(250), 0, false},
	}
	for i, s := range steps {
		dt, ok := ts.Next(s.now)
		if ok != s.runs || !almostEqual(dt, s.dt) {
			t.Fatalf("step %d: got (%v, %v), want (%v, %v)", i, dt, ok, s.dt, s.runs)
		}
	}

	ts.Reset()
	if dt, ok := ts.Next(ms(1000)); dt != 0 || !ok {
		t.Fatalf("after reset got (%v, %v)", dt, ok)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}

	t.Run("embedded", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Window.Width != 1200 || cfg.Window.Height != 700 || cfg.StartLevel != "breakout" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.Physics.CorrectionFactor != 0.5 {
			t.Fatalf("correction factor = %v", cfg.Physics.CorrectionFactor)
		}
	})

	t.Run("custom keeps unset keys", func(t *testing.T) {
		path := write("custom.yaml", "window:\n  width: 800\nstart_level: platformer\nfps: -3\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Window.Width != 800 || cfg.Window.Height != 700 {
			t.Fatalf("window = %+v", cfg.Window)
		}
		if cfg.StartLevel != "platformer" || cfg.FPS != 120 {
			t.Fatalf("cfg = %+v", cfg)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := write("bad.yaml", "window: [1, 2\n")
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestGUI(t *testing.T) {
	g := NewGUI()
	w := ecs.NewWorld("main", nil)
	w.SetProperty("score", 40)

	score := &Widget{Tag: "score", World: "main", Text: "SCORE %.0f", Bind: "score"}
	over := &Widget{Tag: "over", Text: "GAME OVER", When: "game_over"}
	other := &Widget{Tag: "other", World: "elsewhere", Text: "hidden"}

	ids := []int{g.Add(score), g.Add(over), g.Add(other)}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("ids = %v", ids)
	}
	if got := score.Label(w); got != "SCORE 40" {
		t.Fatalf("label = %q", got)
	}

	canvas := render.NewDrawList(100, 100)
	g.Draw(canvas, w)
	if n := len(canvas.Ops()); n != 1 {
		t.Fatalf("drew %d widgets, want 1", n)
	}

	w.SetProperty("game_over", 1)
	canvas.Reset()
	g.Draw(canvas, w)
	if n := len(canvas.Ops()); n != 2 {
		t.Fatalf("drew %d widgets, want 2", n)
	}

	if !g.Remove(2) || g.Remove(2) {
		t.Fatalf("remove should succeed once")
	}
	if id := g.Add(&Widget{Tag: "again"}); id != 2 {
		t.Fatalf("recycled id = %d, want 2", id)
	}

	img := render.HeadlessImages{}.Solid(2, 2, color.White)
	if !g.SetImage("score", img) || g.SetImage("missing", img) {
		t.Fatalf("SetImage results wrong")
	}
	canvas.Reset()
	g.Draw(canvas, w)
	if ops := canvas.Ops(); ops[0].Kind != render.OpSprite {
		t.Fatalf("image widget drew %v", ops[0].Kind)
	}
}

func TestSetWorld(t *testing.T) {
	e := newTestEngine(t)
	newCountingWorld(t, e, "main")
	e.AddWorld(ecs.NewWorld("bare", nil))

	if err := e.SetWorld("missing"); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("missing world err = %v", err)
	}
	if err := e.SetWorld("bare"); !errors.Is(err, ErrNoRenderSystem) {
		t.Fatalf("bare world err = %v", err)
	}
	if e.World() != nil {
		t.Fatalf("failed SetWorld changed the current world")
	}
	if err := e.SetWorld("main"); err != nil {
		t.Fatalf("SetWorld: %v", err)
	}
	if e.World().Name != "main" || !e.World().Loaded() {
		t.Fatalf("main world not current and loaded")
	}
	if err := e.RequestWorld("missing"); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("RequestWorld err = %v", err)
	}
}

func TestStepWithoutWorld(t *testing.T) {
	e := newTestEngine(t)
	if e.Step(0) {
		t.Fatalf("Step without a world should stop the engine")
	}
}

func TestStepPauseAndToggles(t *testing.T) {
	e := newTestEngine(t)
	s := newCountingWorld(t, e, "main")
	if err := e.SetWorld("main"); err != nil {
		t.Fatalf("SetWorld: %v", err)
	}

	e.Step(ms(0))
	if s.updates != 1 {
		t.Fatalf("updates = %d, want 1", s.updates)
	}

	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: KeyPause})
	e.Step(ms(10))
	if !e.Paused() {
		t.Fatalf("P should pause")
	}
	if s.updates != 1 || len(s.inputs) != 0 {
		t.Fatalf("paused world ran: updates %d inputs %v", s.updates, s.inputs)
	}

	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: "A"})
	e.Step(ms(20))
	if s.updates != 1 || len(s.inputs) != 0 {
		t.Fatalf("paused world took input %v", s.inputs)
	}

	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: KeyPause})
	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: KeyDebug})
	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: KeyShowFPS})
	e.Step(ms(30))
	if e.Paused() || !e.Debug() || !e.showFPS {
		t.Fatalf("toggles: paused %v debug %v fps %v", e.Paused(), e.Debug(), e.showFPS)
	}
	if s.updates != 2 {
		t.Fatalf("updates = %d, want 2", s.updates)
	}
	if len(s.inputs) != 3 || s.inputs[0] != KeyPause || s.inputs[1] != KeyDebug || s.inputs[2] != KeyShowFPS {
		t.Fatalf("inputs = %v", s.inputs)
	}
	if !almostEqual(e.DeltaTime(), 0.01) {
		t.Fatalf("dt = %v", e.DeltaTime())
	}
}

func TestStepDropsLongFrames(t *testing.T) {
	e := newTestEngine(t)
	s := newCountingWorld(t, e, "main")
	if err := e.SetWorld("main"); err != nil {
		t.Fatalf("SetWorld: %v", err)
	}
	e.Step(ms(0))
	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: "A"})
	if !e.Step(ms(500)) {
		t.Fatalf("a dropped frame should not stop the engine")
	}
	if s.updates != 1 || len(s.inputs) != 0 {
		t.Fatalf("dropped frame ran: updates %d inputs %v", s.updates, s.inputs)
	}
}

func TestStepQuit(t *testing.T) {
	e := newTestEngine(t)
	newCountingWorld(t, e, "main")
	if err := e.SetWorld("main"); err != nil {
		t.Fatalf("SetWorld: %v", err)
	}
	e.PushEvent(ecs.Event{Type: ecs.EventQuit})
	if e.Step(0) || e.Running() {
		t.Fatalf("quit event should stop the engine")
	}
}

func TestLevelsAndWorldSwitch(t *testing.T) {
	e := newTestEngine(t)
	for _, name := range []string{"breakout", "platformer"} {
		if _, err := e.LoadLevel(name); err != nil {
			t.Fatalf("LoadLevel(%s): %v", name, err)
		}
	}
	if _, err := e.LoadLevel("nope"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if e.GUI().Widget("score") == nil || e.GUI().Widget("time") == nil {
		t.Fatalf("level widgets not registered")
	}
	if err := e.SetWorld("breakout"); err != nil {
		t.Fatalf("SetWorld: %v", err)
	}

	e.Step(ms(0))
	if got := e.World().Property("lives"); got != 3 {
		t.Fatalf("lives = %v, want 3", got)
	}
	if len(e.DrawList().Ops()) == 0 {
		t.Fatalf("nothing drawn")
	}

	e.PushEvent(ecs.Event{Type: ecs.EventKeyDown, Key: "Tab"})
	e.Step(ms(10))
	if e.World().Name != "platformer" {
		t.Fatalf("world = %s, want platformer", e.World().Name)
	}
	if !e.World().Loaded() || len(e.World().FindByTag("player")) != 1 {
		t.Fatalf("platformer scene not loaded")
	}
}

func TestSubmitScore(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SubmitScore("breakout", 10); !errors.Is(err, ErrNoStore) {
		t.Fatalf("err = %v, want ErrNoStore", err)
	}

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	e.SetStore(store)
	defer e.Close()

	for _, s := range []int{10, 30, 20} {
		if err := e.SubmitScore("breakout", s); err != nil {
			t.Fatalf("SubmitScore: %v", err)
		}
	}
	high, err := store.HighScore("breakout")
	if err != nil {
		t.Fatalf("HighScore: %v", err)
	}
	if high != 30 {
		t.Fatalf("high = %d, want 30", high)
	}
}
