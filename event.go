package delegation

import "github.com/nbd-wtf/go-nostr"

// EventProperties is the read-only snapshot of an event that condition
// evaluation needs. It can be built directly from the two raw fields or
// derived from a full event.
type EventProperties struct {
	// Kind is the event kind.
	Kind uint64
	// CreatedAt is the event creation time as a unix timestamp in seconds.
	CreatedAt uint64
}

// NewEventProperties builds an EventProperties from raw field values.
func NewEventProperties(kind, createdAt uint64) EventProperties {
	return EventProperties{Kind: kind, CreatedAt: createdAt}
}

// EventPropertiesFromEvent derives the evaluation snapshot from a full
// nostr event.
func EventPropertiesFromEvent(ev *nostr.Event) EventProperties {
	return EventProperties{
		Kind:      uint64(ev.Kind),
		CreatedAt: uint64(ev.CreatedAt),
	}
}
