package wizard

// EventType identifies an outbound wizard event.
type EventType string

const (
	EventFieldChanged   EventType = "field_changed"
	EventStepCompleted  EventType = "step_completed"
	EventStepRejected   EventType = "step_rejected"
	EventActiveChanged  EventType = "active_changed"
	EventFocusRequested EventType = "focus_requested"
	EventAssetStaged    EventType = "asset_staged"
	EventAssetRejected  EventType = "asset_rejected"
	EventAssetCleared   EventType = "asset_cleared"
	EventSubmitted      EventType = "submitted"
	EventSubmitFailed   EventType = "submit_failed"
)

// Event describes a state change. Field values are never included.
type Event struct {
	Type    EventType
	Step    int    // Step index, -1 when not step specific
	StepKey string // Step key, "" when not step specific
	Field   string
	Slot    string
	Handle  PreviewHandle
	Err     error
}

// Observer receives events synchronously on the caller's goroutine.
type Observer func(Event)
