package component

import "github.com/milk9111/nybble/ecs/render"

type Animation struct {
	Name   string
	Frames []render.Sprite
	// FrameLatency is the time between frames in seconds.
	FrameLatency float64
	Loop         bool
}

func NewAnimation(name string, latency float64, frames ...render.Sprite) *Animation {
	return &Animation{Name: name, Frames: frames, FrameLatency: latency, Loop: true}
}

// AnimationFromStrip wraps a library strip.
func AnimationFromStrip(strip render.Strip) *Animation {
	return &Animation{Name: strip.Name, Frames: strip.Frames, FrameLatency: strip.FrameLatency, Loop: strip.Loop}
}

func (a *Animation) AddFrame(frame render.Sprite) {
	a.Frames = append(a.Frames, frame)
}

type Animator struct {
	Current     *Animation
	Accumulator float64
	Frame       int
	Paused      bool
	// Animations holds the clips PlayNamed can switch to.
	Animations map[string]*Animation
}

// AddAnimation registers anim under its name.
func (a *Animator) AddAnimation(anim *Animation) {
	if anim == nil {
		return
	}
	if a.Animations == nil {
		a.Animations = make(map[string]*Animation)
	}
	a.Animations[anim.Name] = anim
}

// PlayNamed switches to a registered clip. Asking for the clip already
// playing keeps its progress.
func (a *Animator) PlayNamed(name string) bool {
	anim, ok := a.Animations[name]
	if !ok {
		return false
	}
	if a.Current != anim {
		a.Play(anim)
	}
	return true
}

func (*Animator) Kind() Kind { return KindAnimator }

// Play switches to anim from its first frame.
func (a *Animator) Play(anim *Animation) {
	a.Current = anim
	a.Frame = 0
	a.Accumulator = 0
	a.Paused = false
}

// Stop clears the animation and restores the renderer's original sprite.
func (a *Animator) Stop(r *Renderer) {
	a.Current = nil
	a.Frame = 0
	a.Accumulator = 0
	if r != nil {
		r.Sprite = r.Original
	}
}

// Advance moves the animation forward by dt seconds and writes the shown
// frame into r. The accumulator restarts from zero on each frame change.
func (a *Animator) Advance(dt float64, r *Renderer) {
	anim := a.Current
	if anim == nil || a.Paused {
		return
	}
	n := len(anim.Frames)
	if n == 0 {
		return
	}
	if a.Accumulator > anim.FrameLatency {
		a.Frame++
		if anim.Loop {
			a.Frame %= n
		} else if a.Frame >= n {
			a.Frame = n - 1
		}
		if r != nil {
			r.Sprite = anim.Frames[a.Frame]
		}
		a.Accumulator = 0
	}
	a.Accumulator += dt
}
