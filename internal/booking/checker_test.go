// AngelaMos | 2026
// checker_test.go

package booking

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                 string
		aIn, aOut, bIn, bOut string
		want                 bool
	}{
		{"identical", "2025-03-01", "2025-03-04", "2025-03-01", "2025-03-04", true},
		{"inside", "2025-03-01", "2025-03-04", "2025-03-02", "2025-03-03", true},
		{"covering", "2025-03-02", "2025-03-03", "2025-03-01", "2025-03-04", true},
		{"straddles start", "2025-03-01", "2025-03-04", "2025-02-27", "2025-03-02", true},
		{"straddles end", "2025-03-01", "2025-03-04", "2025-03-03", "2025-03-06", true},
		{"touches end", "2025-03-01", "2025-03-04", "2025-03-04", "2025-03-06", false},
		{"touches start", "2025-03-04", "2025-03-06", "2025-03-01", "2025-03-04", false},
		{"disjoint", "2025-03-01", "2025-03-02", "2025-03-10", "2025-03-12", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(day(tt.aIn), day(tt.aOut), day(tt.bIn), day(tt.bOut))
			if got != tt.want {
				t.Fatalf("Overlaps() = %v, want %v", got, tt.want)
			}
			if sym := Overlaps(day(tt.bIn), day(tt.bOut), day(tt.aIn), day(tt.aOut)); sym != got {
				t.Fatalf("Overlaps() is not symmetric: %v vs %v", got, sym)
			}
		})
	}
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name    string
		in, out time.Time
		want    int
	}{
		{"three nights", day("2025-03-01"), day("2025-03-04"), 3},
		{"month boundary", day("2025-02-27"), day("2025-03-02"), 3},
		{"same day", day("2025-03-01"), day("2025-03-01"), 0},
		{
			"time of day is dropped",
			time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC),
			1,
		},
		{
			"offset dates normalize to UTC",
			time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			time.Date(2025, 3, 3, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NightsBetween(tt.in, tt.out); got != tt.want {
				t.Fatalf("NightsBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-01T18:30:00Z")
	if err != nil {
		t.Fatalf("ParseDate(rfc3339) error = %v", err)
	}
	if !got.Equal(day("2025-03-01")) {
		t.Fatalf("ParseDate(rfc3339) = %v, want 2025-03-01", got)
	}

	if _, err := ParseDate("03/01/2025"); err == nil {
		t.Fatal("ParseDate(03/01/2025) error = nil, want error")
	}
}

func checkerFixture() *fakeStore {
	store := newFakeStore()
	store.putRoom(room.Room{
		ID: "r1", HotelID: "h1", RoomNumber: "101", PricePerNight: 100,
		CapacityAdults: 2, IsActive: true, IsAvailable: true,
	})
	store.putRoom(room.Room{
		ID: "r2", HotelID: "h1", RoomNumber: "102", PricePerNight: 100,
		CapacityAdults: 2, IsActive: true, IsAvailable: false,
	})
	store.putRoom(room.Room{
		ID: "r3", HotelID: "h1", RoomNumber: "103", CapacityAdults: 2,
		IsActive: false, IsAvailable: true,
	})
	store.putBooking(Booking{
		ID: "b1", RoomID: "r1", BookingStatus: StatusConfirmed,
		CheckIn: day("2025-03-01"), CheckOut: day("2025-03-04"),
	})
	store.putBooking(Booking{
		ID: "b2", RoomID: "r1", BookingStatus: StatusCancelled,
		CheckIn: day("2025-03-10"), CheckOut: day("2025-03-12"),
	})
	return store
}

func TestCheckerVerdicts(t *testing.T) {
	checker := NewChecker(checkerFixture())
	ctx := context.Background()

	tests := []struct {
		name      string
		roomID    string
		in, out   string
		available bool
		reason    string
		conflicts int
	}{
		{"missing room", "nope", "2025-03-01", "2025-03-02", false, ReasonRoomNotFound, 0},
		{"inactive room", "r3", "2025-03-01", "2025-03-02", false, ReasonRoomNotFound, 0},
		{"unavailable flag wins over dates", "r2", "2025-05-01", "2025-05-02", false, ReasonRoomUnavailable, 0},
		{"overlapping confirmed", "r1", "2025-03-02", "2025-03-03", false, ReasonAlreadyBooked, 1},
		{"touching boundary", "r1", "2025-03-04", "2025-03-06", true, "", 0},
		{"cancelled booking ignored", "r1", "2025-03-10", "2025-03-12", true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := checker.Check(ctx, tt.roomID, day(tt.in), day(tt.out))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if v.Available != tt.available || v.Reason != tt.reason || len(v.Conflicts) != tt.conflicts {
				t.Fatalf("Check() = %+v, want available=%v reason=%q conflicts=%d",
					v, tt.available, tt.reason, tt.conflicts)
			}
		})
	}
}

func TestCheckerIsIdempotent(t *testing.T) {
	store := checkerFixture()
	checker := NewChecker(store)
	ctx := context.Background()

	first, err := checker.Check(ctx, "r1", day("2025-03-02"), day("2025-03-05"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	second, err := checker.Check(ctx, "r1", day("2025-03-02"), day("2025-03-05"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated Check() differs:\n%+v\n%+v", first, second)
	}
	if n := store.confirmedCount("r1"); n != 1 {
		t.Fatalf("confirmed bookings = %d after checks, want 1", n)
	}
}

func TestCheckerPropagatesStorageError(t *testing.T) {
	store := checkerFixture()
	store.readErr = errStorage

	_, err := NewChecker(store).Check(context.Background(), "r1", day("2025-03-01"), day("2025-03-02"))
	if !errors.Is(err, errStorage) {
		t.Fatalf("Check() error = %v, want storage error", err)
	}
}

func TestVerdictErr(t *testing.T) {
	if err := (Verdict{Available: true}).Err(); err != nil {
		t.Fatalf("available Err() = %v, want nil", err)
	}

	if err := (Verdict{Reason: ReasonRoomNotFound}).Err(); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("not found Err() = %v, want ErrNotFound", err)
	}

	err := (Verdict{Reason: ReasonAlreadyBooked}).Err()
	appErr, ok := core.AsAppError(err)
	if !ok || !errors.Is(err, core.ErrConflict) || appErr.Message != ReasonAlreadyBooked {
		t.Fatalf("booked Err() = %v, want conflict with reason verbatim", err)
	}
}
