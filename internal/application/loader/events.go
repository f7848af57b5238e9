package loader

// EventKind identifies a loader milestone.
type EventKind int

const (
	// SceneLoaded fires once per successful single-scene load.
	SceneLoaded EventKind = iota
	// SceneUnloaded fires once per successful single-scene unload.
	SceneUnloaded
	// BulkUnloadStarting fires once before non-persistent scenes are unloaded.
	BulkUnloadStarting
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case SceneLoaded:
		return "SceneLoaded"
	case SceneUnloaded:
		return "SceneUnloaded"
	case BulkUnloadStarting:
		return "BulkUnloadStarting"
	default:
		return "Unknown"
	}
}

// Event is delivered synchronously to subscribers on the game loop.
// Scene is empty for BulkUnloadStarting.
type Event struct {
	Kind  EventKind
	Scene string
}

// Listener receives loader events.
type Listener func(Event)

// Subscribe registers fn for every future event.
func (l *Loader) Subscribe(fn Listener) {
	l.listeners = append(l.listeners, fn)
}

func (l *Loader) emit(e Event) {
	l.log.Debugw("event", "kind", e.Kind.String(), "scene", e.Scene)
	for _, fn := range l.listeners {
		fn(e)
	}
}
