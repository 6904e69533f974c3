// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/config"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/metrics"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

const (
	maxSpecialRequests = 500
	maxUpcomingDays    = 365

	msgNotCancellable = "booking not found or cannot be cancelled"
	msgNotFound       = "booking not found"
	msgLockBusy       = "room is being booked, retry"
)

// RoomLocker serializes check-and-insert per room across instances.
type RoomLocker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

func roomLockKey(roomID string) string {
	return "lock:room:" + roomID
}

type Option func(*Service)

// WithClock replaces time.Now for date checks and cancellation stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

type Service struct {
	store  Store
	tx     core.TxRunner
	locker RoomLocker
	cfg    config.BookingConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewService(
	store Store,
	tx core.TxRunner,
	locker RoomLocker,
	cfg config.BookingConfig,
	opts ...Option,
) *Service {
	s := &Service{
		store:  store,
		tx:     tx,
		locker: locker,
		cfg:    cfg,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.SearchConcurrency < 1 {
		s.cfg.SearchConcurrency = 1
	}
	return s
}

func (s *Service) today() time.Time {
	return NormalizeDate(s.now())
}

// Stay is a validated half-open date range.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (s Stay) Nights() int {
	return NightsBetween(s.CheckIn, s.CheckOut)
}

func (s *Service) parseStay(checkIn, checkOut string) (Stay, error) {
	in, err := ParseDate(strings.TrimSpace(checkIn))
	if err != nil {
		return Stay{}, core.Validationf("invalid check-in date %q", checkIn)
	}
	out, err := ParseDate(strings.TrimSpace(checkOut))
	if err != nil {
		return Stay{}, core.Validationf("invalid check-out date %q", checkOut)
	}

	if !out.After(in) {
		return Stay{}, core.Validationf("check-out date must be after check-in date")
	}
	if in.Before(s.today()) {
		return Stay{}, core.Validationf("check-in date cannot be in the past")
	}

	return Stay{CheckIn: in, CheckOut: out}, nil
}

func validateGuests(adults, children int) error {
	if adults < 1 {
		return core.Validationf("at least 1 adult is required")
	}
	if children < 0 {
		return core.Validationf("children cannot be negative")
	}
	return nil
}

func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	req CreateBookingRequest,
) (*Details, error) {
	ctx, finish := core.Traced(ctx, "booking.Create",
		attribute.String("room_id", req.RoomID),
		attribute.String("user_id", p.UserID),
	)

	d, err := s.create(ctx, p, req)
	metrics.ObserveBooking("create", err)
	finish(err)

	return d, err
}

func (s *Service) create(
	ctx context.Context,
	p access.Principal,
	req CreateBookingRequest,
) (*Details, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}
	if !p.HasStoredAccount() {
		return nil, core.Forbiddenf("operator account cannot own bookings")
	}

	stay, err := s.parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := validateGuests(req.Guests.Adults, req.Guests.Children); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(req.ContactInfo.Phone)
	email := strings.ToLower(strings.TrimSpace(req.ContactInfo.Email))
	if phone == "" || email == "" {
		return nil, core.Validationf("contact phone and email are required")
	}
	special := strings.TrimSpace(req.SpecialRequests)
	if utf8.RuneCountInString(special) > maxSpecialRequests {
		return nil, core.Validationf("special requests cannot exceed %d characters", maxSpecialRequests)
	}

	release, err := s.lockRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	defer release()

	b := &Booking{
		ID:              uuid.New().String(),
		UserID:          p.UserID,
		RoomID:          req.RoomID,
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Adults:          req.Guests.Adults,
		Children:        req.Guests.Children,
		PaymentStatus:   PaymentPending,
		BookingStatus:   StatusConfirmed,
		ContactPhone:    phone,
		ContactEmail:    email,
		SpecialRequests: special,
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		store := s.store.WithTx(tx)

		rm, err := store.LockRoom(ctx, b.RoomID)
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundf(ReasonRoomNotFound)
		}
		if err != nil {
			return err
		}

		verdict, err := NewChecker(store).CheckRoom(ctx, rm, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return err
		}
		if err := verdict.Err(); err != nil {
			return err
		}

		if err := checkCapacity(rm, b.Adults, b.Children); err != nil {
			return err
		}

		nights := stay.Nights()
		if nights <= 0 {
			return core.Validationf("stay must be at least one night")
		}

		b.HotelID = rm.HotelID
		b.TotalAmount = roundCents(rm.PricePerNight * float64(nights))

		if err := store.Create(ctx, b); err != nil {
			if errors.Is(err, ErrOverlap) {
				return core.Conflictf(ReasonAlreadyBooked)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"room_id", b.RoomID,
		"user_id", b.UserID,
		"nights", stay.Nights(),
		"total_amount", b.TotalAmount,
	)

	d, err := s.store.GetDetails(ctx, b.ID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf(msgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) lockRoom(ctx context.Context, roomID string) (func(), error) {
	start := time.Now()
	release, err := s.locker.Lock(ctx, roomLockKey(roomID))
	metrics.ObserveLockWait(err == nil, time.Since(start))

	if errors.Is(err, core.ErrLockNotAcquired) {
		return nil, core.Conflictf(msgLockBusy)
	}
	if err != nil {
		return nil, fmt.Errorf("lock room: %w", err)
	}

	core.AddSpanEvent(ctx, "room.locked", attribute.String("room.id", roomID))
	return release, nil
}

func checkCapacity(rm *room.Room, adults, children int) error {
	if adults > rm.CapacityAdults {
		return core.Validationf("room cannot accommodate %d adults (max %d)",
			adults, rm.CapacityAdults)
	}
	if children > rm.CapacityChildren {
		return core.Validationf("room cannot accommodate %d children (max %d)",
			children, rm.CapacityChildren)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) Cancel(
	ctx context.Context,
	p access.Principal,
	id, reason string,
) (*Details, error) {
	ctx, finish := core.Traced(ctx, "booking.Cancel",
		attribute.String("booking_id", id),
		attribute.String("user_id", p.UserID),
	)

	d, err := s.cancel(ctx, p, id, reason)
	metrics.ObserveBooking("cancel", err)
	finish(err)

	return d, err
}

func (s *Service) cancel(
	ctx context.Context,
	p access.Principal,
	id, reason string,
) (*Details, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}

	owner := p.UserID
	if p.IsAdmin() {
		owner = ""
	}

	b, err := s.store.FindCancellable(ctx, id, owner)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf(msgNotCancellable)
	}
	if err != nil {
		return nil, err
	}

	if err := access.Can(p, access.CancelBooking, access.Owned(b.UserID)); err != nil {
		return nil, err
	}

	now := s.now()
	if !p.IsAdmin() && b.CheckIn.Sub(now) < s.cfg.CancellationWindow {
		return nil, core.PolicyViolationf("cannot cancel within %d hours of check-in",
			int(s.cfg.CancellationWindow.Hours()))
	}

	var why *string
	if r := strings.TrimSpace(reason); r != "" {
		why = &r
	}

	if err := s.store.Cancel(ctx, b.ID, now, why); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundf(msgNotCancellable)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking cancelled",
		"booking_id", b.ID,
		"room_id", b.RoomID,
		"user_id", b.UserID,
		"by_admin", p.IsAdmin(),
	)

	return s.store.GetDetails(ctx, b.ID)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	p access.Principal,
	id, value string,
) (*Details, error) {
	if err := access.Can(p, access.UpdateBookingStatus, access.Resource{}); err != nil {
		return nil, err
	}

	status, ok := ParseStatus(value)
	if !ok {
		return nil, core.Validationf("invalid booking status %q", value)
	}

	err := s.store.UpdateStatus(ctx, id, status)
	metrics.ObserveBooking("update_status", err)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil, core.NotFoundf(msgNotFound)
	case errors.Is(err, ErrOverlap):
		return nil, core.Conflictf(ReasonAlreadyBooked)
	case err != nil:
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking status updated", "booking_id", id, "status", status)

	return s.store.GetDetails(ctx, id)
}

func (s *Service) UpdatePaymentStatus(
	ctx context.Context,
	p access.Principal,
	id, value string,
) (*Details, error) {
	if err := access.Can(p, access.UpdatePaymentStatus, access.Resource{}); err != nil {
		return nil, err
	}

	status, ok := ParsePaymentStatus(value)
	if !ok {
		return nil, core.Validationf("invalid payment status %q", value)
	}

	err := s.store.UpdatePaymentStatus(ctx, id, status)
	metrics.ObserveBooking("update_payment", err)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf(msgNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment status updated", "booking_id", id, "payment_status", status)

	return s.store.GetDetails(ctx, id)
}

func (s *Service) Get(ctx context.Context, p access.Principal, id string) (*Details, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}

	d, err := s.store.GetDetails(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf(msgNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := access.Can(p, access.ReadBooking, access.Owned(d.UserID)); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	p access.Principal,
	params ListParams,
) ([]Details, int, error) {
	if p.IsZero() {
		return nil, 0, core.UnauthorizedError("")
	}
	if err := validateFilters(params); err != nil {
		return nil, 0, err
	}

	params.UserID = p.UserID
	return s.store.List(ctx, params)
}

func (s *Service) ListAll(
	ctx context.Context,
	p access.Principal,
	params ListParams,
) ([]Details, int, error) {
	if err := access.Can(p, access.ListAllBookings, access.Resource{}); err != nil {
		return nil, 0, err
	}
	if err := validateFilters(params); err != nil {
		return nil, 0, err
	}

	return s.store.List(ctx, params)
}

func validateFilters(params ListParams) error {
	if params.Status != "" {
		if _, ok := ParseStatus(params.Status); !ok {
			return core.Validationf("invalid booking status %q", params.Status)
		}
	}
	if params.PaymentStatus != "" {
		if _, ok := ParsePaymentStatus(params.PaymentStatus); !ok {
			return core.Validationf("invalid payment status %q", params.PaymentStatus)
		}
	}
	if params.CheckInFrom != nil && params.CheckInTo != nil &&
		params.CheckInTo.Before(*params.CheckInFrom) {
		return core.Validationf("checkInTo must not be before checkInFrom")
	}
	return nil
}

// Upcoming lists Confirmed stays starting within the next days days. Zero
// selects the configured default.
func (s *Service) Upcoming(
	ctx context.Context,
	p access.Principal,
	days int,
) ([]Details, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}

	if days == 0 {
		days = s.cfg.UpcomingDays
	}
	if days < 1 || days > maxUpcomingDays {
		return nil, core.Validationf("days must be between 1 and %d", maxUpcomingDays)
	}

	userID := p.UserID
	if p.IsAdmin() {
		userID = ""
	}

	from := s.today()
	return s.store.Upcoming(ctx, userID, from, from.AddDate(0, 0, days))
}

func (s *Service) Stats(ctx context.Context, p access.Principal) (*Stats, error) {
	if err := access.Can(p, access.ViewBookingStats, access.Resource{}); err != nil {
		return nil, err
	}

	return s.store.Stats(ctx)
}

type SearchQuery struct {
	HotelID  string
	CheckIn  string
	CheckOut string
	Adults   int
	Children int
}

type Availability struct {
	HotelID string
	Stay    Stay
	Rooms   []room.Room
}

// AvailableRooms runs the checker over every candidate room of a hotel with
// bounded fan-out. Rooms keep their room-number order.
func (s *Service) AvailableRooms(ctx context.Context, q SearchQuery) (*Availability, error) {
	stay, err := s.parseStay(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := validateGuests(q.Adults, q.Children); err != nil {
		return nil, err
	}

	exists, err := s.store.HotelExists(ctx, q.HotelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.NotFoundf("hotel not found")
	}

	candidates, err := s.store.Candidates(ctx, q.HotelID, q.Adults, q.Children)
	if err != nil {
		return nil, err
	}

	checker := NewChecker(s.store)
	free := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SearchConcurrency)

	for i := range candidates {
		g.Go(func() error {
			verdict, err := checker.CheckRoom(gctx, &candidates[i], stay.CheckIn, stay.CheckOut)
			if err != nil {
				return err
			}
			free[i] = verdict.Available
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search available rooms: %w", err)
	}

	rooms := make([]room.Room, 0, len(candidates))
	for i, ok := range free {
		if ok {
			rooms = append(rooms, candidates[i])
		}
	}

	return &Availability{HotelID: q.HotelID, Stay: stay, Rooms: rooms}, nil
}
