package hub

import (
	"context"

	"vaxslots/internal/notify"
)

// Follow feeds bus events to the registry until ctx is done or the bus
// closes. If the bus evicts the subscription, events were lost, so Follow
// subscribes again and then drops every client; reconnecting clients
// re-read the center list and resume from live events.
func (r *Registry) Follow(ctx context.Context, bus *notify.Bus) {
	sub := bus.Subscribe(r.HandleEvent)
	for {
		select {
		case <-ctx.Done():
			bus.Unsubscribe(sub)
			return
		case <-sub.Done():
		}
		if !sub.Evicted() || ctx.Err() != nil {
			return
		}
		// Subscribe before dropping clients so a client that reconnects
		// right away cannot miss events.
		sub = bus.Subscribe(r.HandleEvent)
		n := r.DisconnectAll()
		r.resyncs.Add(1)
		resyncsTotal.Inc()
		r.log.Warn().Int("dropped", n).Msg("event subscription evicted; clients dropped for resync")
	}
}

// Resyncs returns how many times Follow lost its subscription.
func (r *Registry) Resyncs() uint64 { return r.resyncs.Load() }
