package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vaxslots/internal/store"
	"vaxslots/pkg/types"
)

// Authority serializes mutations per center and owns the slots >= 0 invariant.
type Authority struct {
	store       CenterStore
	pub         EventPublisher
	slots       int
	lockTimeout time.Duration
	gates       *gateSet
	log         zerolog.Logger

	// adds is held exclusively while a new center is inserted and announced,
	// and shared by every gated mutation, so no event for a center can
	// precede its centerAdded.
	adds sync.RWMutex
}

// Book takes one slot from the center. It is a single attempt: when the
// counter is zero it fails with a no-slots error without waiting or retrying.
func (a *Authority) Book(ctx context.Context, id int64) (types.Center, error) {
	c, err := a.book(ctx, id)
	outcome := Outcome(err)
	bookingsTotal.WithLabelValues(outcome).Inc()
	ev := a.log.Debug()
	if outcome == OutcomeStoreError {
		ev = a.log.Error()
	}
	ev.Int64("center_id", id).Str("outcome", outcome).Err(err).Msg("book")
	return c, err
}

func (a *Authority) book(ctx context.Context, id int64) (types.Center, error) {
	if id <= 0 {
		return types.Center{}, validationError{msg: "center id must be positive"}
	}
	release, err := a.enter(ctx, id)
	if err != nil {
		return types.Center{}, storeError{op: "book", err: err}
	}
	defer release()

	sctx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()
	remaining, err := a.store.DecrementSlot(sctx, id)
	switch {
	case errors.Is(err, store.ErrNoSlots):
		return types.Center{}, noSlotsError{id: id}
	case errors.Is(err, store.ErrNotFound):
		return types.Center{}, notFoundError{id: id}
	case err != nil:
		return types.Center{}, storeError{op: "book", err: err}
	}
	a.pub.Publish(types.ChangeEvent{Kind: types.EventSlotBooked, CenterID: id, AvailableSlots: remaining})
	return types.Center{ID: id, AvailableSlots: remaining}, nil
}

// AddCenter stores a new center with the default slot count and announces it.
func (a *Authority) AddCenter(ctx context.Context, in types.CenterRequest) (types.Center, error) {
	if err := validateCenter(in); err != nil {
		adminOpsTotal.WithLabelValues("add", "invalid").Inc()
		return types.Center{}, err
	}
	a.adds.Lock()
	defer a.adds.Unlock()
	sctx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()
	c, err := a.store.InsertCenter(sctx, types.Center{
		Name:           in.Name,
		Location:       in.Location,
		DosageDetails:  in.DosageDetails,
		Timings:        in.Timings,
		AvailableSlots: a.slots,
	})
	if err != nil {
		adminOpsTotal.WithLabelValues("add", "error").Inc()
		a.log.Error().Err(err).Msg("add center")
		return types.Center{}, storeError{op: "add center", err: err}
	}
	// The row is visible as soon as it commits; holding adds keeps gated
	// mutations of the new id waiting until centerAdded is published.
	a.pub.Publish(types.ChangeEvent{Kind: types.EventCenterAdded, CenterID: c.ID})
	adminOpsTotal.WithLabelValues("add", "ok").Inc()
	a.log.Info().Int64("center_id", c.ID).Str("name", c.Name).Msg("center added")
	return c, nil
}

// UpdateCenter rewrites a center's descriptive fields; the slot counter is
// only ever changed by Book.
func (a *Authority) UpdateCenter(ctx context.Context, id int64, in types.CenterRequest) error {
	if id <= 0 {
		adminOpsTotal.WithLabelValues("update", "invalid").Inc()
		return validationError{msg: "center id must be positive"}
	}
	if err := validateCenter(in); err != nil {
		adminOpsTotal.WithLabelValues("update", "invalid").Inc()
		return err
	}
	err := a.mutate(ctx, "update", id, func(ctx context.Context) error {
		return a.store.UpdateCenter(ctx, types.Center{
			ID:            id,
			Name:          in.Name,
			Location:      in.Location,
			DosageDetails: in.DosageDetails,
			Timings:       in.Timings,
		})
	}, types.EventCenterUpdated)
	if err == nil {
		a.log.Info().Int64("center_id", id).Msg("center updated")
	}
	return err
}

// RemoveCenter deletes a center and announces it.
func (a *Authority) RemoveCenter(ctx context.Context, id int64) error {
	if id <= 0 {
		adminOpsTotal.WithLabelValues("remove", "invalid").Inc()
		return validationError{msg: "center id must be positive"}
	}
	err := a.mutate(ctx, "remove", id, func(ctx context.Context) error {
		return a.store.DeleteCenter(ctx, id)
	}, types.EventCenterRemoved)
	if err == nil {
		a.log.Info().Int64("center_id", id).Msg("center removed")
	}
	return err
}

// ListCenters is the bootstrap read for observers and the list endpoint.
func (a *Authority) ListCenters(ctx context.Context) ([]types.Center, error) {
	cs, err := a.store.ListCenters(ctx)
	if err != nil {
		return nil, storeError{op: "list centers", err: err}
	}
	return cs, nil
}

// Ready reports whether the backing store answers.
func (a *Authority) Ready(ctx context.Context) error {
	if err := a.store.Ping(ctx); err != nil {
		return storeError{op: "ping", err: err}
	}
	return nil
}

// mutate runs write inside the center's gate and publishes kind on success.
func (a *Authority) mutate(ctx context.Context, op string, id int64, write func(context.Context) error, kind types.EventKind) error {
	release, err := a.enter(ctx, id)
	if err != nil {
		adminOpsTotal.WithLabelValues(op, "timeout").Inc()
		return storeError{op: op, err: err}
	}
	defer release()
	sctx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	defer cancel()
	switch err := write(sctx); {
	case errors.Is(err, store.ErrNotFound):
		adminOpsTotal.WithLabelValues(op, "not_found").Inc()
		return notFoundError{id: id}
	case err != nil:
		adminOpsTotal.WithLabelValues(op, "error").Inc()
		a.log.Error().Err(err).Str("op", op).Int64("center_id", id).Msg("center write failed")
		return storeError{op: op, err: err}
	}
	a.pub.Publish(types.ChangeEvent{Kind: kind, CenterID: id})
	adminOpsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

// enter takes the center's gate and a shared hold on adds. Store calls made
// inside are bounded by the lock timeout as well.
func (a *Authority) enter(ctx context.Context, id int64) (func(), error) {
	start := time.Now()
	release, err := a.gates.acquire(ctx, id, a.lockTimeout)
	gateWaitSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	a.adds.RLock()
	return func() {
		a.adds.RUnlock()
		release()
	}, nil
}

func validateCenter(in types.CenterRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError{msg: "name is required"}
	}
	return nil
}
