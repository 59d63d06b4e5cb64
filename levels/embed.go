package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is a scene description: world bounds, the entities to build from
// prefabs, world scripts and HUD widgets.
type Level struct {
	Name     string       `yaml:"name"`
	Bounds   BoundsSpec   `yaml:"bounds"`
	Gravity  *VectorSpec  `yaml:"gravity"`
	Camera   string       `yaml:"camera"`
	Scripts  []string     `yaml:"scripts"`
	Widgets  []WidgetSpec `yaml:"widgets"`
	Entities []Entity     `yaml:"entities"`
}

// BoundsSpec is the world rectangle. A zero width or height leaves the
// world unbounded.
type BoundsSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Entity places a prefab. With Grid set, one copy is built per cell.
type Entity struct {
	Prefab     string         `yaml:"prefab"`
	Name       string         `yaml:"name"`
	X          float64        `yaml:"x"`
	Y          float64        `yaml:"y"`
	Grid       *GridSpec      `yaml:"grid"`
	Components map[string]any `yaml:"components"`
}

type GridSpec struct {
	Cols int     `yaml:"cols"`
	Rows int     `yaml:"rows"`
	DX   float64 `yaml:"dx"`
	DY   float64 `yaml:"dy"`
}

// WidgetSpec is a HUD element drawn above the scene. Text is a format
// string; with Bind set it receives the named world property. With When
// set the widget is hidden while that property is zero.
type WidgetSpec struct {
	Tag   string  `yaml:"tag"`
	Text  string  `yaml:"text"`
	Bind  string  `yaml:"bind"`
	When  string  `yaml:"when"`
	Image string  `yaml:"image"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color"`
}

// Positions expands e into the positions it is built at.
func (e Entity) Positions() []VectorSpec {
	if e.Grid == nil {
		return []VectorSpec{{X: e.X, Y: e.Y}}
	}
	cols, rows := max(e.Grid.Cols, 1), max(e.Grid.Rows, 1)
	out := make([]VectorSpec, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, VectorSpec{
				X: e.X + float64(c)*e.Grid.DX,
				Y: e.Y + float64(r)*e.Grid.DY,
			})
		}
	}
	return out
}

func LoadLevelFromFS(name string) (*Level, error) {
	file := name
	if path.Ext(file) == "" {
		file += ".yaml"
	}
	data, err := fs.ReadFile(LevelsFS, file)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(data, strings.TrimSuffix(file, ".yaml"))
}

// ParseLevel decodes a level. name is used when the file does not set one.
func ParseLevel(data []byte, name string) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Name == "" {
		lvl.Name = name
	}
	for i, e := range lvl.Entities {
		if e.Prefab == "" {
			return nil, fmt.Errorf("level %s: entity %d has no prefab", lvl.Name, i)
		}
	}
	return &lvl, nil
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.Glob(LevelsFS, "*.yaml")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e, ".yaml"))
	}
	sort.Strings(out)
	return out
}
