package notify

import (
	"sync"
	"sync/atomic"

	"vaxslots/pkg/types"
)

// Subscription is a handle returned by Bus.Subscribe.
type Subscription struct {
	id      uint64
	handler Handler
	limit   int

	mu    sync.Mutex
	queue []types.ChangeEvent

	wake     chan struct{} // size 1: pending-work signal
	done     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
	evicted  atomic.Bool
}

// Done is closed once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} { return s.stopped }

// Evicted reports whether the bus dropped s because its mailbox overflowed,
// as opposed to Unsubscribe or Close.
func (s *Subscription) Evicted() bool { return s.evicted.Load() }

func (s *Subscription) enqueue(ev types.ChangeEvent) bool {
	s.mu.Lock()
	if len(s.queue) >= s.limit {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

func (s *Subscription) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *Subscription) next() (types.ChangeEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return types.ChangeEvent{}, false
	}
	ev := s.queue[0]
	s.queue[0] = types.ChangeEvent{}
	s.queue = s.queue[1:]
	return ev, true
}

func (s *Subscription) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			select {
			case <-s.done:
				return
			default:
			}
			ev, ok := s.next()
			if !ok {
				break
			}
			s.handler(ev)
		}
	}
}
