// AngelaMos | 2026
// service_test.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/config"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

var (
	guest    = access.Principal{UserID: "user-1", Role: access.RoleUser}
	stranger = access.Principal{UserID: "user-2", Role: access.RoleUser}
	admin    = access.Principal{UserID: "admin-1", Role: access.RoleAdmin}
	operator = access.Principal{UserID: access.OperatorID, Role: access.RoleAdmin, Operator: true}
)

var testConfig = config.BookingConfig{
	CancellationWindow: 24 * time.Hour,
	UpcomingDays:       7,
	SearchConcurrency:  4,
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(now time.Time) (*Service, *fakeStore) {
	store := newFakeStore()
	store.putRoom(room.Room{
		ID: "room-x", HotelID: "h1", RoomNumber: "101", Type: room.TypeDouble,
		PricePerNight: 100, CapacityAdults: 2, CapacityChildren: 0,
		IsActive: true, IsAvailable: true,
	})

	svc := NewService(store, fakeTx{}, core.NewLocalLocker(time.Second), testConfig,
		WithClock(fixedClock(now)))
	return svc, store
}

func request(roomID, in, out string, adults, children int) CreateBookingRequest {
	return CreateBookingRequest{
		RoomID:      roomID,
		CheckIn:     in,
		CheckOut:    out,
		Guests:      GuestsInput{Adults: adults, Children: children},
		ContactInfo: ContactInput{Phone: "+1 555 0100", Email: "Guest@Example.com"},
	}
}

func wantMessage(t *testing.T, err error, sentinel error, msg string) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("error = %v, want %v", err, sentinel)
	}
	appErr, ok := core.AsAppError(err)
	if !ok {
		t.Fatalf("error = %v, want an AppError", err)
	}
	if appErr.Message != msg {
		t.Fatalf("message = %q, want %q", appErr.Message, msg)
	}
}

var february = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func TestCreateComputesTotal(t *testing.T) {
	svc, _ := newTestService(february)

	d, err := svc.Create(context.Background(), guest, request("room-x", "2025-03-01", "2025-03-04", 2, 0))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if d.TotalAmount != 300 {
		t.Fatalf("total = %v, want 300", d.TotalAmount)
	}
	if d.Nights() != 3 {
		t.Fatalf("nights = %d, want 3", d.Nights())
	}
	if d.BookingStatus != StatusConfirmed || d.PaymentStatus != PaymentPending {
		t.Fatalf("status = %s/%s, want Confirmed/Pending", d.BookingStatus, d.PaymentStatus)
	}
	if d.HotelID != "h1" || d.UserID != guest.UserID {
		t.Fatalf("hotel/user = %s/%s, want h1/%s", d.HotelID, d.UserID, guest.UserID)
	}
	if d.RoomNumber != "101" {
		t.Fatalf("room number = %q, want resolved 101", d.RoomNumber)
	}
	if d.ContactEmail != "guest@example.com" {
		t.Fatalf("contact email = %q, want lowercased", d.ContactEmail)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(february)

	if _, err := svc.Create(ctx, guest, request("room-x", "2025-03-01", "2025-03-04", 2, 0)); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := svc.Create(ctx, stranger, request("room-x", "2025-03-02", "2025-03-03", 1, 0))
	wantMessage(t, err, core.ErrConflict, ReasonAlreadyBooked)
}

func TestCreateAcceptsTouchingBoundary(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)

	if _, err := svc.Create(ctx, guest, request("room-x", "2025-03-01", "2025-03-04", 2, 0)); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	d, err := svc.Create(ctx, stranger, request("room-x", "2025-03-04", "2025-03-06", 1, 0))
	if err != nil {
		t.Fatalf("touching Create() error = %v", err)
	}
	if d.TotalAmount != 200 {
		t.Fatalf("total = %v, want 200", d.TotalAmount)
	}
	if n := store.confirmedCount("room-x"); n != 2 {
		t.Fatalf("confirmed = %d, want 2", n)
	}
}

func TestCreateCapacity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(february)

	_, err := svc.Create(ctx, guest, request("room-x", "2025-03-01", "2025-03-02", 3, 0))
	wantMessage(t, err, core.ErrInvalidInput, "room cannot accommodate 3 adults (max 2)")

	_, err = svc.Create(ctx, guest, request("room-x", "2025-03-01", "2025-03-02", 1, 1))
	wantMessage(t, err, core.ErrInvalidInput, "room cannot accommodate 1 children (max 0)")
}

func TestCreateReasons(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	store.putRoom(room.Room{
		ID: "closed", HotelID: "h1", RoomNumber: "102", CapacityAdults: 2,
		IsActive: true, IsAvailable: false,
	})

	_, err := svc.Create(ctx, guest, request("missing", "2025-03-01", "2025-03-02", 1, 0))
	wantMessage(t, err, core.ErrNotFound, ReasonRoomNotFound)

	_, err = svc.Create(ctx, guest, request("closed", "2025-03-01", "2025-03-02", 1, 0))
	wantMessage(t, err, core.ErrConflict, ReasonRoomUnavailable)
}

func TestCreateValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(february)

	tests := []struct {
		name string
		req  CreateBookingRequest
	}{
		{"bad date", request("room-x", "March 1", "2025-03-02", 1, 0)},
		{"check-out before check-in", request("room-x", "2025-03-04", "2025-03-01", 1, 0)},
		{"zero nights", request("room-x", "2025-03-01", "2025-03-01", 1, 0)},
		{"check-in in the past", request("room-x", "2025-01-31", "2025-02-02", 1, 0)},
		{"no adults", request("room-x", "2025-03-01", "2025-03-02", 0, 0)},
		{"missing contact", func() CreateBookingRequest {
			r := request("room-x", "2025-03-01", "2025-03-02", 1, 0)
			r.ContactInfo.Email = " "
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, guest, tt.req); !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("Create() error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if _, err := svc.Create(ctx, guest, request("room-x", "2025-02-01", "2025-02-02", 1, 0)); err != nil {
		t.Fatalf("Create(today) error = %v, want nil", err)
	}
}

func TestCreatePrincipals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(february)
	req := request("room-x", "2025-03-01", "2025-03-02", 1, 0)

	if _, err := svc.Create(ctx, access.Principal{}, req); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("anonymous Create() error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Create(ctx, operator, req); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("operator Create() error = %v, want ErrForbidden", err)
	}
}

func TestCreateMapsStoreOverlap(t *testing.T) {
	svc, store := newTestService(february)
	store.overlapErr = fmt.Errorf("create booking: %w", ErrOverlap)

	_, err := svc.Create(context.Background(), guest, request("room-x", "2025-03-01", "2025-03-02", 1, 0))
	wantMessage(t, err, core.ErrConflict, ReasonAlreadyBooked)
}

func TestCreateMapsVanishedBooking(t *testing.T) {
	svc, store := newTestService(february)
	store.detailsErr = fmt.Errorf("get booking details: %w", core.ErrNotFound)

	_, err := svc.Create(context.Background(), guest, request("room-x", "2025-03-01", "2025-03-02", 1, 0))
	wantMessage(t, err, core.ErrNotFound, "booking not found")
}

func TestCreateLockBusy(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeTx{}, busyLocker{}, testConfig, WithClock(fixedClock(february)))

	_, err := svc.Create(context.Background(), guest, request("room-x", "2025-03-01", "2025-03-02", 1, 0))
	wantMessage(t, err, core.ErrConflict, "room is being booked, retry")
}

func TestConcurrentCreatesBookOnce(t *testing.T) {
	svc, store := newTestService(february)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := access.Principal{UserID: fmt.Sprintf("user-%d", i), Role: access.RoleUser}
			_, errs[i] = svc.Create(ctx, p, request("room-x", "2025-03-01", "2025-03-04", 1, 0))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, core.ErrConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Fatalf("successful bookings = %d, want exactly 1", succeeded)
	}
	if n := store.confirmedCount("room-x"); n != 1 {
		t.Fatalf("confirmed bookings = %d, want 1", n)
	}
}

func seedBooking(store *fakeStore, id, userID string, checkIn time.Time) {
	store.putBooking(Booking{
		ID: id, UserID: userID, RoomID: "room-x", HotelID: "h1",
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2),
		Adults: 1, TotalAmount: 200,
		BookingStatus: StatusConfirmed, PaymentStatus: PaymentPending,
	})
}

func TestCancelWithinWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	seedBooking(store, "b1", guest.UserID, day("2025-03-02"))

	_, err := svc.Cancel(ctx, guest, "b1", "change of plans")
	wantMessage(t, err, core.ErrPolicyViolation, "cannot cancel within 24 hours of check-in")
	if store.booking("b1").BookingStatus != StatusConfirmed {
		t.Fatal("booking changed after policy violation")
	}

	d, err := svc.Cancel(ctx, admin, "b1", "")
	if err != nil {
		t.Fatalf("admin Cancel() error = %v", err)
	}
	if d.BookingStatus != StatusCancelled || d.CancellationReason != nil {
		t.Fatalf("admin Cancel() = %s reason=%v, want Cancelled without reason",
			d.BookingStatus, d.CancellationReason)
	}
}

func TestCancelOnlyWritesCancellationFields(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(now)
	seedBooking(store, "b1", guest.UserID, day("2025-03-10"))
	before := store.booking("b1")

	if _, err := svc.Cancel(ctx, guest, "b1", "  sick  "); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	after := store.booking("b1")
	if !after.CheckIn.Equal(before.CheckIn) || !after.CheckOut.Equal(before.CheckOut) ||
		after.TotalAmount != before.TotalAmount || after.PaymentStatus != before.PaymentStatus {
		t.Fatalf("cancel mutated stay fields: before %+v after %+v", before, after)
	}
	if after.CancellationDate == nil || !after.CancellationDate.Equal(now) {
		t.Fatalf("cancellation date = %v, want %v", after.CancellationDate, now)
	}
	if after.CancellationReason == nil || *after.CancellationReason != "sick" {
		t.Fatalf("cancellation reason = %v, want sick", after.CancellationReason)
	}

	_, err := svc.Cancel(ctx, guest, "b1", "")
	wantMessage(t, err, core.ErrNotFound, "booking not found or cannot be cancelled")
}

func TestCancelRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	seedBooking(store, "b1", guest.UserID, day("2025-03-10"))

	_, err := svc.Cancel(ctx, stranger, "b1", "")
	wantMessage(t, err, core.ErrNotFound, "booking not found or cannot be cancelled")

	if _, err := svc.Cancel(ctx, access.Principal{}, "b1", ""); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("anonymous Cancel() error = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateStatuses(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	seedBooking(store, "b1", guest.UserID, day("2025-03-10"))

	if _, err := svc.UpdatePaymentStatus(ctx, guest, "b1", "Paid"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("owner UpdatePaymentStatus() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UpdateStatus(ctx, guest, "b1", "Completed"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("owner UpdateStatus() error = %v, want ErrForbidden", err)
	}

	if _, err := svc.UpdatePaymentStatus(ctx, admin, "b1", "Settled"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("UpdatePaymentStatus(Settled) error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.UpdateStatus(ctx, admin, "b1", "Gone"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("UpdateStatus(Gone) error = %v, want ErrInvalidInput", err)
	}

	d, err := svc.UpdatePaymentStatus(ctx, admin, "b1", "Paid")
	if err != nil {
		t.Fatalf("UpdatePaymentStatus() error = %v", err)
	}
	if d.PaymentStatus != PaymentPaid || d.BookingStatus != StatusConfirmed {
		t.Fatalf("after payment update = %s/%s", d.BookingStatus, d.PaymentStatus)
	}

	d, err = svc.UpdateStatus(ctx, operator, "b1", "No Show")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if d.BookingStatus != StatusNoShow || d.PaymentStatus != PaymentPaid {
		t.Fatalf("after status update = %s/%s", d.BookingStatus, d.PaymentStatus)
	}

	_, err = svc.UpdateStatus(ctx, admin, "missing", "Completed")
	wantMessage(t, err, core.ErrNotFound, "booking not found")
}

func TestGetChecksOwnership(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	seedBooking(store, "b1", guest.UserID, day("2025-03-10"))

	if _, err := svc.Get(ctx, guest, "b1"); err != nil {
		t.Fatalf("owner Get() error = %v", err)
	}
	if _, err := svc.Get(ctx, admin, "b1"); err != nil {
		t.Fatalf("admin Get() error = %v", err)
	}
	if _, err := svc.Get(ctx, stranger, "b1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("stranger Get() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, guest, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListScopes(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	seedBooking(store, "b1", guest.UserID, day("2025-03-10"))
	seedBooking(store, "b2", stranger.UserID, day("2025-03-20"))

	mine, total, err := svc.ListMine(ctx, guest, ListParams{UserID: stranger.UserID})
	if err != nil {
		t.Fatalf("ListMine() error = %v", err)
	}
	if total != 1 || mine[0].ID != "b1" {
		t.Fatalf("ListMine() = %d items, want only b1", total)
	}

	if _, _, err := svc.ListAll(ctx, guest, ListParams{}); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("user ListAll() error = %v, want ErrForbidden", err)
	}
	if _, _, err := svc.ListAll(ctx, admin, ListParams{Status: "Pending"}); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("ListAll(bad status) error = %v, want ErrInvalidInput", err)
	}
	if _, total, err := svc.ListAll(ctx, admin, ListParams{}); err != nil || total != 2 {
		t.Fatalf("admin ListAll() = %d, %v; want 2", total, err)
	}
}

func TestUpcoming(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	seedBooking(store, "soon", guest.UserID, day("2025-03-03"))
	seedBooking(store, "later", guest.UserID, day("2025-03-20"))
	seedBooking(store, "other", stranger.UserID, day("2025-03-02"))

	got, err := svc.Upcoming(ctx, guest, 0)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "soon" {
		t.Fatalf("Upcoming() = %d items, want only soon", len(got))
	}

	all, err := svc.Upcoming(ctx, admin, 30)
	if err != nil {
		t.Fatalf("admin Upcoming() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("admin Upcoming(30) = %d items, want 3", len(all))
	}

	if _, err := svc.Upcoming(ctx, guest, 366); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Upcoming(366) error = %v, want ErrInvalidInput", err)
	}
}

func TestStatsIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(february)

	if _, err := svc.Stats(context.Background(), guest); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("user Stats() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Stats(context.Background(), admin); err != nil {
		t.Fatalf("admin Stats() error = %v", err)
	}
}

func TestAvailableRooms(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(february)
	for i := 2; i <= 9; i++ {
		store.putRoom(room.Room{
			ID: fmt.Sprintf("room-%d", i), HotelID: "h1", RoomNumber: fmt.Sprintf("10%d", i),
			PricePerNight: 80, CapacityAdults: 2, IsActive: true, IsAvailable: true,
		})
	}
	store.putRoom(room.Room{
		ID: "small", HotelID: "h1", RoomNumber: "100", CapacityAdults: 1,
		IsActive: true, IsAvailable: true,
	})
	store.putBooking(Booking{
		ID: "taken", RoomID: "room-5", BookingStatus: StatusConfirmed,
		CheckIn: day("2025-03-01"), CheckOut: day("2025-03-03"),
	})

	got, err := svc.AvailableRooms(ctx, SearchQuery{
		HotelID: "h1", CheckIn: "2025-03-02", CheckOut: "2025-03-04", Adults: 2,
	})
	if err != nil {
		t.Fatalf("AvailableRooms() error = %v", err)
	}

	var numbers []string
	for _, r := range got.Rooms {
		numbers = append(numbers, r.RoomNumber)
	}
	want := []string{"101", "102", "103", "104", "106", "107", "108", "109"}
	if fmt.Sprint(numbers) != fmt.Sprint(want) {
		t.Fatalf("rooms = %v, want %v", numbers, want)
	}
	if got.Stay.Nights() != 2 {
		t.Fatalf("nights = %d, want 2", got.Stay.Nights())
	}

	if _, err := svc.AvailableRooms(ctx, SearchQuery{
		HotelID: "nope", CheckIn: "2025-03-02", CheckOut: "2025-03-04", Adults: 1,
	}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("AvailableRooms(unknown hotel) error = %v, want ErrNotFound", err)
	}
}
