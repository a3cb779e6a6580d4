package booking

import (
	"context"
	"sync"
	"time"
)

// gate admits one mutation at a time for a single center.
type gate struct {
	ch   chan struct{} // size 1: single in-flight mutation
	refs int           // guarded by gateSet.mu
}

// gateSet holds gates for centers with waiting or running mutations. Idle
// gates are dropped so the map stays proportional to in-flight work.
type gateSet struct {
	mu    sync.Mutex
	gates map[int64]*gate
}

func newGateSet() *gateSet { return &gateSet{gates: make(map[int64]*gate)} }

func (s *gateSet) ref(id int64) *gate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.gates[id]
	if g == nil {
		g = &gate{ch: make(chan struct{}, 1)}
		s.gates[id] = g
	}
	g.refs++
	return g
}

func (s *gateSet) unref(id int64, g *gate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.refs--
	if g.refs == 0 {
		delete(s.gates, id)
	}
}

// acquire waits up to wait for the center's gate. Returns a release func to
// be called exactly once.
func (s *gateSet) acquire(ctx context.Context, id int64, wait time.Duration) (func(), error) {
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := s.ref(id)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case g.ch <- struct{}{}:
		return func() {
			<-g.ch
			s.unref(id, g)
		}, nil
	case <-ctx.Done():
		s.unref(id, g)
		return nil, ctx.Err()
	case <-timer.C:
		s.unref(id, g)
		return nil, ErrTimeout
	}
}

// size returns the number of live gates.
func (s *gateSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.gates)
}
