package booking

import (
	"sync"

	"vaxslots/pkg/types"
)

// MemoryPublisher stores events in-memory for tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []types.ChangeEvent
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e types.ChangeEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []types.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.ChangeEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Count returns how many events of kind were published.
func (p *MemoryPublisher) Count(kind types.EventKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
