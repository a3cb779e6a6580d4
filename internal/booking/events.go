package booking

import "vaxslots/pkg/types"

// EventPublisher receives committed change events. Implementations must not
// block; Publish is called while the center's gate is still held.
type EventPublisher interface {
	Publish(types.ChangeEvent)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(types.ChangeEvent) {}
