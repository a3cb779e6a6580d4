package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vaxslots/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultSlots       = 10
	defaultLockTimeout = 5 * time.Second
)

// CenterStore is the persistence contract the authority needs.
// DecrementSlot must be atomic and report store.ErrNoSlots / store.ErrNotFound.
type CenterStore interface {
	ListCenters(ctx context.Context) ([]types.Center, error)
	InsertCenter(ctx context.Context, c types.Center) (types.Center, error)
	UpdateCenter(ctx context.Context, c types.Center) error
	DeleteCenter(ctx context.Context, id int64) error
	DecrementSlot(ctx context.Context, id int64) (int, error)
	Ping(ctx context.Context) error
}

// Config encapsulates all tunables for Authority construction.
type Config struct {
	Store     CenterStore
	Publisher EventPublisher
	// DefaultSlots is the slot count given to newly added centers.
	DefaultSlots int
	// LockTimeout bounds how long a mutation waits for its center's gate.
	LockTimeout time.Duration
	Logger      zerolog.Logger
}

// New constructs an Authority from Config.
func New(cfg Config) *Authority {
	a := &Authority{
		store:       cfg.Store,
		pub:         cfg.Publisher,
		slots:       cfg.DefaultSlots,
		lockTimeout: cfg.LockTimeout,
		gates:       newGateSet(),
		log:         cfg.Logger.With().Str("component", "booking").Logger(),
	}
	if a.pub == nil {
		a.pub = noopPublisher{}
	}
	if a.slots <= 0 {
		a.slots = defaultSlots
	}
	if a.lockTimeout <= 0 {
		a.lockTimeout = defaultLockTimeout
	}
	return a
}
