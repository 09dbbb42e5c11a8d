package session

type EventKind int

const (
	EventLoaded EventKind = iota
	EventLoadFailed
	EventRecomputed
	EventRecomputeFailed
	EventViewChanged
	EventSelectionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventRecomputed:
		return "recomputed"
	case EventRecomputeFailed:
		return "recompute-failed"
	case EventViewChanged:
		return "view-changed"
	case EventSelectionChanged:
		return "selection-changed"
	}
	return "unknown"
}

// Event is delivered synchronously to subscribers after each state change.
type Event struct {
	Kind     EventKind
	Selector Selector
	State    ViewState
	Err      error
}

func (s *Session) Subscribe(f func(Event)) {
	s.listeners = append(s.listeners, f)
}

func (s *Session) emit(e Event) {
	if e.Kind != EventViewChanged {
		e.State = s.state
	}
	for _, f := range s.listeners {
		f(e)
	}
}
