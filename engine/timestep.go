package engine

import "time"

// MaxDelta is the longest frame, in seconds, that is simulated. Longer
// frames (window drags, breakpoints) are dropped.
const MaxDelta = 0.05

// Timestep turns a monotonic clock into frame delta times.
type Timestep struct {
	MaxDelta float64

	last    time.Duration
	started bool
}

func NewTimestep(maxDelta float64) *Timestep {
	if maxDelta <= 0 {
		maxDelta = MaxDelta
	}
	return &Timestep{MaxDelta: maxDelta}
}

// Next returns the seconds elapsed since the previous call and whether the
// frame should run. The first frame has a zero delta.
func (t *Timestep) Next(now time.Duration) (float64, bool) {
	if !t.started {
		t.started = true
		t.last = now
		return 0, true
	}
	dt := (now - t.last).Seconds()
	t.last = now
	if dt >= t.MaxDelta {
		return 0, false
	}
	return dt, true
}

// Reset makes the next frame a first frame again.
func (t *Timestep) Reset() {
	t.started = false
}
