package hub

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vaxslots/internal/notify"
	"vaxslots/pkg/types"
)

func startFollow(t *testing.T, r *Registry, bus *notify.Bus) (context.CancelFunc, <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Follow(ctx, bus)
		close(done)
	}()
	waitFor(t, "subscribed", func() bool { return bus.Len() == 1 })
	return cancel, done
}

func TestFollow_ResyncsAfterEviction(t *testing.T) {
	bus := notify.NewBus(notify.Config{Buffer: 2, Logger: zerolog.Nop()})
	defer bus.Close()
	r := newTestRegistry()
	defer r.Close()
	stale := newFakeConn()
	staleClient, _ := r.Register(stale)
	cancel, done := startFollow(t, r, bus)
	defer cancel()

	// Holding the write lock stalls fan-out inside the handler, so the
	// mailbox fills and the bus evicts the subscription.
	r.mu.Lock()
	for i := 0; i < 4; i++ {
		bus.Publish(types.ChangeEvent{Kind: types.EventSlotBooked, CenterID: 1, AvailableSlots: 4 - i})
	}
	r.mu.Unlock()

	waitFor(t, "resync", func() bool { return r.Resyncs() == 1 })
	if s := staleClient.State(); s != StateClosed || !stale.isClosed() {
		t.Fatalf("stale client state=%s closed=%v", s, stale.isClosed())
	}
	if n := bus.Len(); n != 1 {
		t.Fatalf("registry not resubscribed, bus subscribers=%d", n)
	}

	fresh := newFakeConn()
	_, _ = r.Register(fresh)
	bus.Publish(types.ChangeEvent{Kind: types.EventCenterRemoved, CenterID: 7})
	waitFor(t, "fresh delivery", func() bool { return len(fresh.frames()) == 1 })
	if got := string(fresh.frames()[0]); got != `{"event":"centerRemoved","centerId":7}` {
		t.Fatalf("frame=%s", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after cancel")
	}
	if n := bus.Len(); n != 0 {
		t.Fatalf("subscription left behind, bus subscribers=%d", n)
	}
}

func TestFollow_ReturnsWhenBusCloses(t *testing.T) {
	bus := notify.NewBus(notify.Config{Logger: zerolog.Nop()})
	r := newTestRegistry()
	defer r.Close()
	c, _ := r.Register(newFakeConn())
	cancel, done := startFollow(t, r, bus)
	defer cancel()

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after bus close")
	}
	if r.Resyncs() != 0 || c.State() != StateOpen {
		t.Fatalf("close treated as eviction: resyncs=%d state=%s", r.Resyncs(), c.State())
	}
}
