package ecs

// EventType identifies an input event.
type EventType uint8

const (
	EventKeyDown EventType = iota + 1
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseMotion
	EventQuit
)

var eventTypeNames = map[EventType]string{
	EventKeyDown:     "key_down",
	EventKeyUp:       "key_up",
	EventMouseDown:   "mouse_down",
	EventMouseUp:     "mouse_up",
	EventMouseMotion: "mouse_motion",
	EventQuit:        "quit",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is an input event delivered to scripts through World.TakeInput.
type Event struct {
	Type EventType
	// Key is the key name for key events, e.g. "A", "Space", "ArrowLeft".
	Key string
	// Button is the mouse button for mouse button events.
	Button int
	// X and Y are the cursor position for mouse events.
	X, Y float64
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
