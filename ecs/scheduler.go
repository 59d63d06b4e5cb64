package ecs

// System processes the world's entity list once per frame.
type System interface {
	Tag() string
	Process(w *World, entities []*Entity)
}

// Scheduler keeps systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Remove drops the first system with the given tag.
func (s *Scheduler) Remove(tag string) bool {
	for i, system := range s.systems {
		if system.Tag() == tag {
			s.systems = append(s.systems[:i], s.systems[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the first system registered under tag.
func (s *Scheduler) Lookup(tag string) (System, bool) {
	for _, system := range s.systems {
		if system.Tag() == tag {
			return system, true
		}
	}
	return nil, false
}

func (s *Scheduler) Process(w *World, entities []*Entity) {
	for _, system := range s.systems {
		system.Process(w, entities)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
