package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"vaxslots/internal/store"
	"vaxslots/pkg/types"
)

func newSQLiteAuthority(t *testing.T, pub EventPublisher) (*Authority, *store.Store) {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:booking_%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	a := New(Config{Store: st, Publisher: pub, LockTimeout: 2 * time.Second, Logger: zerolog.Nop()})
	return a, st
}

func seedCenter(t *testing.T, st *store.Store, slots int) types.Center {
	t.Helper()
	c, err := st.InsertCenter(context.Background(), types.Center{Name: "A", AvailableSlots: slots})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

// fakeStore is a map-backed CenterStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	centers map[int64]types.Center
	nextID  int64
	failErr error
	// stall makes DecrementSlot wait for its context.
	stall bool
	// afterInsert runs once a row is visible, outside the store lock.
	afterInsert func(types.Center)
}

func newFakeStore() *fakeStore { return &fakeStore{centers: make(map[int64]types.Center)} }

func (f *fakeStore) ListCenters(ctx context.Context) ([]types.Center, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	out := make([]types.Center, 0, len(f.centers))
	for i := int64(1); i <= f.nextID; i++ {
		if c, ok := f.centers[i]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertCenter(ctx context.Context, c types.Center) (types.Center, error) {
	f.mu.Lock()
	if f.failErr != nil {
		f.mu.Unlock()
		return types.Center{}, f.failErr
	}
	f.nextID++
	c.ID = f.nextID
	f.centers[c.ID] = c
	hook := f.afterInsert
	f.mu.Unlock()
	if hook != nil {
		hook(c)
	}
	return c, nil
}

func (f *fakeStore) UpdateCenter(ctx context.Context, c types.Center) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	cur, ok := f.centers[c.ID]
	if !ok {
		return store.ErrNotFound
	}
	c.AvailableSlots = cur.AvailableSlots
	f.centers[c.ID] = c
	return nil
}

func (f *fakeStore) DeleteCenter(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.centers[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.centers, id)
	return nil
}

func (f *fakeStore) DecrementSlot(ctx context.Context, id int64) (int, error) {
	f.mu.Lock()
	if f.stall {
		f.mu.Unlock()
		<-ctx.Done()
		return 0, ctx.Err()
	}
	defer f.mu.Unlock()
	if f.failErr != nil {
		return 0, f.failErr
	}
	c, ok := f.centers[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	if c.AvailableSlots == 0 {
		return 0, store.ErrNoSlots
	}
	c.AvailableSlots--
	f.centers[id] = c
	return c.AvailableSlots, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.failErr }

func (f *fakeStore) slots(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.centers[id].AvailableSlots
}

var errDiskGone = errors.New("disk gone")
