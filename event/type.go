package event

// EventType represents the type of core event
type EventType int

const (
	// EventTargetsReady carries a generated target set
	// Trigger: AI generation goroutine on success
	// Consumer: Scene.Tick | Payload: *TargetsPayload
	EventTargetsReady EventType = iota

	// EventTargetsFailed reports a failed generation, the consumer installs the fallback shape
	// Trigger: AI generation goroutine on error, timeout or panic
	// Consumer: Scene.Tick | Payload: *TargetsPayload
	EventTargetsFailed
)

func (t EventType) String() string {
	switch t {
	case EventTargetsReady:
		return "TargetsReady"
	case EventTargetsFailed:
		return "TargetsFailed"
	default:
		return "Unknown"
	}
}

// Event is a single queued message
// Seq is the producer's request sequence, consumers drop events older than their latest request
type Event struct {
	Type    EventType
	Seq     uint64
	Payload any
}

// Targets returns the generation payload, nil when the event carries none
func (ev Event) Targets() *TargetsPayload {
	p, _ := ev.Payload.(*TargetsPayload)
	return p
}
