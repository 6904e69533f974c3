// AngelaMos | 2026
// checker.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

const (
	ReasonRoomNotFound    = "room not found"
	ReasonRoomUnavailable = "room not available"
	ReasonAlreadyBooked   = "already booked for selected dates"
)

// AvailabilitySource is the read side the checker needs. GetRoom returns
// core.ErrNotFound for missing and inactive rooms alike.
type AvailabilitySource interface {
	GetRoom(ctx context.Context, roomID string) (*room.Room, error)
	ConfirmedOverlapping(
		ctx context.Context,
		roomID string,
		checkIn, checkOut time.Time,
	) ([]Booking, error)
}

type Verdict struct {
	Available bool
	Reason    string
	Conflicts []Booking
}

// Err turns an unavailable verdict into the failure a caller reports, with
// the reason kept verbatim.
func (v Verdict) Err() error {
	switch {
	case v.Available:
		return nil
	case v.Reason == ReasonRoomNotFound:
		return core.NotFoundf(ReasonRoomNotFound)
	default:
		return core.Conflictf("%s", v.Reason)
	}
}

type Checker struct {
	src AvailabilitySource
}

func NewChecker(src AvailabilitySource) *Checker {
	return &Checker{src: src}
}

// Check is a pure read. Storage failures are returned as errors, never as
// an unavailable verdict.
func (c *Checker) Check(
	ctx context.Context,
	roomID string,
	checkIn, checkOut time.Time,
) (Verdict, error) {
	rm, err := c.src.GetRoom(ctx, roomID)
	if errors.Is(err, core.ErrNotFound) {
		return Verdict{Reason: ReasonRoomNotFound}, nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("check availability: %w", err)
	}

	return c.CheckRoom(ctx, rm, checkIn, checkOut)
}

// CheckRoom skips the room lookup for callers that already hold the row.
func (c *Checker) CheckRoom(
	ctx context.Context,
	rm *room.Room,
	checkIn, checkOut time.Time,
) (Verdict, error) {
	if !rm.IsActive {
		return Verdict{Reason: ReasonRoomNotFound}, nil
	}
	if !rm.IsAvailable {
		return Verdict{Reason: ReasonRoomUnavailable}, nil
	}

	in, out := NormalizeDate(checkIn), NormalizeDate(checkOut)

	candidates, err := c.src.ConfirmedOverlapping(ctx, rm.ID, in, out)
	if err != nil {
		return Verdict{}, fmt.Errorf("check availability: %w", err)
	}

	var conflicts []Booking
	for _, b := range candidates {
		if b.BookingStatus == StatusConfirmed &&
			Overlaps(in, out, NormalizeDate(b.CheckIn), NormalizeDate(b.CheckOut)) {
			conflicts = append(conflicts, b)
		}
	}

	if len(conflicts) > 0 {
		return Verdict{Reason: ReasonAlreadyBooked, Conflicts: conflicts}, nil
	}

	return Verdict{Available: true}, nil
}
