// AngelaMos | 2026
// fake_test.go

package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

// fakeStore keeps rooms and bookings in memory. ConfirmedOverlapping returns
// every booking on the room regardless of status or dates so the checker's
// own filtering is what tests observe.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[string]*room.Room
	hotels   map[string]bool
	bookings map[string]*Booking

	overlapErr error
	readErr    error
	detailsErr error
	reads      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    map[string]*room.Room{},
		hotels:   map[string]bool{},
		bookings: map[string]*Booking{},
	}
}

func (f *fakeStore) putRoom(r room.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels[r.HotelID] = true
	f.rooms[r.ID] = &r
}

func (f *fakeStore) putBooking(b Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[b.ID] = &b
}

func (f *fakeStore) booking(id string) Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.bookings[id]
}

func (f *fakeStore) confirmedCount(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.RoomID == roomID && b.BookingStatus == StatusConfirmed {
			n++
		}
	}
	return n
}

func (f *fakeStore) WithTx(core.DBTX) Store { return f }

func (f *fakeStore) GetRoom(_ context.Context, id string) (*room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	r, ok := f.rooms[id]
	if !ok || !r.IsActive {
		return nil, core.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) LockRoom(ctx context.Context, id string) (*room.Room, error) {
	return f.GetRoom(ctx, id)
}

func (f *fakeStore) ConfirmedOverlapping(
	_ context.Context,
	roomID string,
	_, _ time.Time,
) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []Booking
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) HotelExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hotels[id], nil
}

func (f *fakeStore) Candidates(
	_ context.Context,
	hotelID string,
	adults, children int,
) ([]room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []room.Room
	for _, r := range f.rooms {
		if r.HotelID == hotelID && r.IsActive && r.IsAvailable && r.Fits(adults, children) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlapErr != nil {
		return f.overlapErr
	}
	for _, other := range f.bookings {
		if other.RoomID == b.RoomID && other.BookingStatus == StatusConfirmed &&
			Overlaps(b.CheckIn, b.CheckOut, other.CheckIn, other.CheckOut) {
			return ErrOverlap
		}
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) GetDetails(ctx context.Context, id string) (*Details, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &Details{Booking: *b}
	if r, ok := f.rooms[b.RoomID]; ok {
		d.RoomNumber = r.RoomNumber
		d.RoomType = string(r.Type)
	}
	return d, nil
}

func (f *fakeStore) FindCancellable(_ context.Context, id, userID string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.BookingStatus != StatusConfirmed || (userID != "" && b.UserID != userID) {
		return nil, core.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) Cancel(_ context.Context, id string, at time.Time, reason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.BookingStatus != StatusConfirmed {
		return core.ErrNotFound
	}
	b.BookingStatus = StatusCancelled
	b.CancellationDate = &at
	b.CancellationReason = reason
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.ErrNotFound
	}
	b.BookingStatus = status
	return nil
}

func (f *fakeStore) UpdatePaymentStatus(_ context.Context, id string, status PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return core.ErrNotFound
	}
	b.PaymentStatus = status
	return nil
}

func (f *fakeStore) List(_ context.Context, params ListParams) ([]Details, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Details
	for _, b := range f.bookings {
		if params.UserID != "" && b.UserID != params.UserID {
			continue
		}
		if params.Status != "" && string(b.BookingStatus) != params.Status {
			continue
		}
		out = append(out, Details{Booking: *b})
	}
	return out, len(out), nil
}

func (f *fakeStore) Upcoming(_ context.Context, userID string, from, to time.Time) ([]Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Details
	for _, b := range f.bookings {
		if b.BookingStatus != StatusConfirmed || b.CheckIn.Before(from) || b.CheckIn.After(to) {
			continue
		}
		if userID != "" && b.UserID != userID {
			continue
		}
		out = append(out, Details{Booking: *b})
	}
	return out, nil
}

func (f *fakeStore) Stats(context.Context) (*Stats, error) {
	return &Stats{}, nil
}

type fakeTx struct{}

func (fakeTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	return fn(nil)
}

type busyLocker struct{}

func (busyLocker) Lock(context.Context, string) (func(), error) {
	return nil, core.ErrLockNotAcquired
}

var errStorage = errors.New("connection reset")
