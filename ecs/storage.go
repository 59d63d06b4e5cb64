package ecs

// IDManager hands out entity ids. Released ids are reused last-in first-out
// before the counter grows.
type IDManager struct {
	counter int
	free    []int
}

// Get returns a recycled id if one is available, otherwise the next unused
// id starting at 1.
func (m *IDManager) Get() int {
	if n := len(m.free); n > 0 {
		id := m.free[n-1]
		m.free = m.free[:n-1]
		return id
	}
	m.counter++
	return m.counter
}

// Recycle makes id available to Get again.
func (m *IDManager) Recycle(id int) {
	if id <= 0 || id > m.counter {
		return
	}
	m.free = append(m.free, id)
}

// EntityManager is the registry of a world's entities in creation order.
type EntityManager struct {
	ids      IDManager
	entities []*Entity
	byID     map[int]*Entity
}

func NewEntityManager() *EntityManager {
	return &EntityManager{byID: make(map[int]*Entity)}
}

// Add registers e under a fresh id.
func (m *EntityManager) Add(e *Entity) {
	if e == nil {
		return
	}
	e.id = m.ids.Get()
	e.alive = true
	m.entities = append(m.entities, e)
	m.byID[e.id] = e
}

// Remove unregisters e and recycles its id.
func (m *EntityManager) Remove(e *Entity) bool {
	if e == nil || m.byID[e.id] != e {
		return false
	}
	for i, cur := range m.entities {
		if cur == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
	delete(m.byID, e.id)
	m.ids.Recycle(e.id)
	e.alive = false
	return true
}

func (m *EntityManager) Get(id int) (*Entity, bool) {
	e, ok := m.byID[id]
	return e, ok
}

// Entities returns the registered entities. The slice is owned by the
// manager; callers must not modify it.
func (m *EntityManager) Entities() []*Entity {
	return m.entities
}

func (m *EntityManager) Len() int {
	return len(m.entities)
}
