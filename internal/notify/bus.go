// Package notify is the in-process fan-out of committed change events.
//
// Every subscriber owns a FIFO mailbox drained by its own goroutine, so a slow
// handler never blocks Publish or other subscribers, and events reach each
// subscriber in publish order. There is no persistence or replay: a
// subscriber only sees events published after it subscribed.
package notify

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"vaxslots/pkg/types"
)

const defaultBuffer = 256

var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaxslots",
			Subsystem: "bus",
			Name:      "events_published_total",
			Help:      "Change events published, by kind",
		},
		[]string{"kind"},
	)
	subscriberEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vaxslots",
			Subsystem: "bus",
			Name:      "subscriber_evictions_total",
			Help:      "Subscribers dropped because their mailbox overflowed",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsPublished, subscriberEvictions)
}

// Handler consumes events for one subscriber. It runs on the subscriber's
// goroutine and may block without affecting other subscribers.
type Handler func(types.ChangeEvent)

// Config tunes the bus.
type Config struct {
	// Buffer bounds each subscriber's pending events; on overflow the
	// subscriber is evicted. Zero means 256.
	Buffer int
	Logger zerolog.Logger
}

// Bus is a publish/subscribe fan-out of ChangeEvents.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	seq    uint64
	buffer int
	closed bool
	log    zerolog.Logger
}

// NewBus constructs a Bus.
func NewBus(cfg Config) *Bus {
	b := &Bus{
		subs:   make(map[uint64]*Subscription),
		buffer: cfg.Buffer,
		log:    cfg.Logger.With().Str("component", "bus").Logger(),
	}
	if b.buffer <= 0 {
		b.buffer = defaultBuffer
	}
	return b
}

// Subscribe registers h and starts its delivery goroutine.
func (b *Bus) Subscribe(h Handler) *Subscription {
	s := &Subscription{
		handler: h,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		limit:   b.buffer,
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.stop()
		close(s.stopped)
		return s
	}
	b.nextID++
	s.id = b.nextID
	b.subs[s.id] = s
	b.mu.Unlock()
	go s.run()
	return s
}

// Unsubscribe stops delivery to s. Events still queued for s are discarded.
// Safe to call more than once and from within s's handler.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	delete(b.subs, s.id)
	b.mu.Unlock()
	s.stop()
}

// Publish assigns the next sequence number and queues ev for every current
// subscriber. It never blocks on subscribers.
func (b *Bus) Publish(ev types.ChangeEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	var overflow []*Subscription
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.seq++
	ev.Seq = b.seq
	for _, s := range b.subs {
		if !s.enqueue(ev) {
			s.evicted.Store(true)
			overflow = append(overflow, s)
			delete(b.subs, s.id)
		}
	}
	n := len(b.subs)
	b.mu.Unlock()

	eventsPublished.WithLabelValues(string(ev.Kind)).Inc()
	for _, s := range overflow {
		s.stop()
		subscriberEvictions.Inc()
		b.log.Warn().Uint64("subscriber", s.id).Msg("subscriber mailbox overflow; evicted")
	}
	b.log.Debug().Str("kind", string(ev.Kind)).Int64("center_id", ev.CenterID).Uint64("seq", ev.Seq).Int("subscribers", n).Msg("publish")
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close stops all subscribers; later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()
	for _, s := range subs {
		s.stop()
	}
}
