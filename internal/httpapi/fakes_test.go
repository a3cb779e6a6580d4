package httpapi

import (
	"context"
	"errors"
	"sync"

	"vaxslots/pkg/types"
)

var errStoreDown = errors.New("store down")

// fakeService is an in-memory Service. bookErr, when set, is returned from
// Book regardless of state.
type fakeService struct {
	mu       sync.Mutex
	centers  []types.Center
	nextID   int64
	listErr  error
	writeErr error
	bookErr  error
	readyErr error
	booked   []int64
}

func (f *fakeService) ListCenters(context.Context) ([]types.Center, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]types.Center(nil), f.centers...), nil
}

func (f *fakeService) AddCenter(_ context.Context, in types.CenterRequest) (types.Center, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return types.Center{}, f.writeErr
	}
	f.nextID++
	c := types.Center{ID: f.nextID, Name: in.Name, Location: in.Location, DosageDetails: in.DosageDetails, Timings: in.Timings, AvailableSlots: 10}
	f.centers = append(f.centers, c)
	return c, nil
}

func (f *fakeService) UpdateCenter(_ context.Context, id int64, in types.CenterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.centers {
		if f.centers[i].ID == id {
			f.centers[i].Name = in.Name
			f.centers[i].Location = in.Location
			f.centers[i].DosageDetails = in.DosageDetails
			f.centers[i].Timings = in.Timings
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeService) RemoveCenter(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	for i := range f.centers {
		if f.centers[i].ID == id {
			f.centers = append(f.centers[:i], f.centers[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeService) Book(_ context.Context, id int64) (types.Center, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booked = append(f.booked, id)
	if f.bookErr != nil {
		return types.Center{}, f.bookErr
	}
	return types.Center{ID: id, AvailableSlots: 9}, nil
}

func (f *fakeService) Ready(context.Context) error { return f.readyErr }

type fakeAccounts struct {
	users     map[string]string
	createErr error
	checkErr  error
}

func (f *fakeAccounts) CreateUser(_ context.Context, _, email, password string) (types.InsertResult, error) {
	if f.createErr != nil {
		return types.InsertResult{}, f.createErr
	}
	if f.users == nil {
		f.users = map[string]string{}
	}
	if _, ok := f.users[email]; ok {
		return types.InsertResult{}, errors.New("duplicate")
	}
	f.users[email] = password
	return types.InsertResult{AffectedRows: 1, InsertID: int64(len(f.users))}, nil
}

func (f *fakeAccounts) CheckCredentials(_ context.Context, email, password string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	pw, ok := f.users[email]
	return ok && pw == password, nil
}
