package glowtree

// EventType identifies a scene event.
type EventType uint8

const (
	EventTap              EventType = iota // a qualifying tap was handled
	EventModeChanged                       // the mode advanced
	EventRebuilt                           // a new generation became current
	EventFirstInteraction                  // the first tap since the scene was created
)

func (t EventType) String() string {
	switch t {
	case EventTap:
		return "tap"
	case EventModeChanged:
		return "mode-changed"
	case EventRebuilt:
		return "rebuilt"
	case EventFirstInteraction:
		return "first-interaction"
	default:
		return "unknown"
	}
}

// Event carries scene event data to an optional EventSink.
type Event struct {
	Type     EventType
	Mode     Mode
	Previous Mode
	Count    int
	Serial   uint64
}

// EventSink is the interface for optional event forwarding (for example to
// an ECS world). When set on a Scene, events are emitted synchronously.
type EventSink interface {
	EmitEvent(event Event)
}
