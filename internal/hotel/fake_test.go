// AngelaMos | 2026
// fake_test.go

package hotel

import (
	"context"
	"sync"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type fakeRoom struct {
	hotelID string
	price   float64
	active  bool
}

type fakeRepo struct {
	mu     sync.Mutex
	hotels map[string]*Hotel
	rooms  map[string]*fakeRoom
	locks  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hotels: map[string]*Hotel{},
		rooms:  map[string]*fakeRoom{},
	}
}

func (f *fakeRepo) WithTx(core.DBTX) Repository { return f }

func (f *fakeRepo) Create(_ context.Context, h *Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.IsActive = true
	cp := *h
	f.hotels[h.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok || !h.IsActive {
		return nil, core.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, id string) (*Hotel, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) Update(_ context.Context, h *Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[h.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *h
	f.hotels[h.ID] = &cp
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok || !h.IsActive {
		return core.ErrNotFound
	}
	h.IsActive = false
	return nil
}

func (f *fakeRepo) List(context.Context, ListHotelsParams) ([]Hotel, int, error) {
	return f.all(), len(f.hotels), nil
}

func (f *fakeRepo) Search(context.Context, string, core.PageParams) ([]Hotel, int, error) {
	return f.all(), len(f.hotels), nil
}

func (f *fakeRepo) ListByOwner(
	_ context.Context,
	ownerID string,
	_ core.PageParams,
) ([]Hotel, int, error) {
	var out []Hotel
	for _, h := range f.all() {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) all() []Hotel {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		out = append(out, *h)
	}
	return out
}

func (f *fakeRepo) SetRating(_ context.Context, id string, avg float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return core.ErrNotFound
	}
	h.RatingAverage, h.RatingCount = avg, count
	return nil
}

func (f *fakeRepo) Lock(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[id]; !ok {
		return core.ErrNotFound
	}
	f.locks++
	return nil
}

func (f *fakeRepo) ActiveRoomPrices(_ context.Context, hotelID string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var prices []float64
	for _, r := range f.rooms {
		if r.hotelID == hotelID && r.active {
			prices = append(prices, r.price)
		}
	}
	return prices, nil
}

func (f *fakeRepo) SetPriceRange(_ context.Context, hotelID string, pr PriceRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[hotelID]
	if !ok {
		return core.ErrNotFound
	}
	h.PriceMin, h.PriceMax = pr.Min, pr.Max
	return nil
}

func (f *fakeRepo) AddRoomID(_ context.Context, hotelID, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[hotelID]
	if !ok {
		return core.ErrNotFound
	}
	if !h.RoomIDs.Contains(roomID) {
		h.RoomIDs = append(h.RoomIDs, roomID)
	}
	return nil
}

func (f *fakeRepo) RemoveRoomID(_ context.Context, hotelID, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[hotelID]
	if !ok {
		return core.ErrNotFound
	}
	kept := h.RoomIDs[:0]
	for _, id := range h.RoomIDs {
		if id != roomID {
			kept = append(kept, id)
		}
	}
	h.RoomIDs = kept
	return nil
}

func (f *fakeRepo) ClearRooms(_ context.Context, hotelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[hotelID]
	if !ok {
		return core.ErrNotFound
	}
	for _, r := range f.rooms {
		if r.hotelID == hotelID {
			r.active = false
		}
	}
	h.RoomIDs = nil
	return nil
}

// putRoom stands in for the room write the synchronizer is triggered by.
func (f *fakeRepo) putRoom(id, hotelID string, price float64, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[id] = &fakeRoom{hotelID: hotelID, price: price, active: active}
}

func (f *fakeRepo) hotel(id string) Hotel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.hotels[id]
}

type fakeTx struct{}

func (fakeTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	return fn(nil)
}
