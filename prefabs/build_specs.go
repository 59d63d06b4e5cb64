package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec describes one entity: its components keyed by builder
// name and the behaviour scripts attached to it.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Tag        string         `yaml:"tag"`
	Components map[string]any `yaml:"components"`
	Scripts    []string       `yaml:"scripts"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// MergeComponents overlays overrides on base. Component maps are merged
// key by key; any other value replaces the base entry.
func MergeComponents(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		baseMap, okBase := out[k].(map[string]any)
		overMap, okOver := v.(map[string]any)
		if !okBase || !okOver {
			out[k] = v
			continue
		}
		merged := make(map[string]any, len(baseMap)+len(overMap))
		for mk, mv := range baseMap {
			merged[mk] = mv
		}
		for mk, mv := range overMap {
			merged[mk] = mv
		}
		out[k] = merged
	}
	return out
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SolidImageSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"`
}

type RendererComponentSpec struct {
	Image  string          `yaml:"image"`
	Solid  *SolidImageSpec `yaml:"solid"`
	Depth  int             `yaml:"depth"`
	Static bool            `yaml:"static"`
	// Pivot defaults to the sprite centre.
	PivotX *float64 `yaml:"pivot_x"`
	PivotY *float64 `yaml:"pivot_y"`
}

type RigidBodyComponentSpec struct {
	VelocityX      float64 `yaml:"velocity_x"`
	VelocityY      float64 `yaml:"velocity_y"`
	Mass           float64 `yaml:"mass"`
	GravityScale   float64 `yaml:"gravity_scale"`
	GravityEnabled *bool   `yaml:"gravity_enabled"`
}

type MaterialSpec struct {
	SurfaceFriction *float64 `yaml:"surface_friction"`
	Restitution     float64  `yaml:"restitution"`
	Trigger         bool     `yaml:"trigger"`
	Dynamic         bool     `yaml:"dynamic"`
}

type BoxColliderComponentSpec struct {
	MaterialSpec `yaml:",inline"`
	// A zero size fits the box to the entity's sprite.
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type CircleColliderComponentSpec struct {
	MaterialSpec `yaml:",inline"`
	Radius       float64 `yaml:"radius"`
}

type AnimationComponentSpec struct {
	Name string `yaml:"name"`
	// Dir is an assets directory holding one image per frame.
	Dir     string  `yaml:"dir"`
	Latency float64 `yaml:"latency"`
	Loop    *bool   `yaml:"loop"`
}

type AnimatorComponentSpec struct {
	Animations []AnimationComponentSpec `yaml:"animations"`
	Play       string                   `yaml:"play"`
}
