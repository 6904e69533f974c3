// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

// Store is the persistence the booking engine runs against. Reads of the
// rooms table live here too so a whole check-and-insert can be rebound to
// one transaction with WithTx.
type Store interface {
	AvailabilitySource

	WithTx(tx core.DBTX) Store
	LockRoom(ctx context.Context, roomID string) (*room.Room, error)
	HotelExists(ctx context.Context, hotelID string) (bool, error)
	Candidates(ctx context.Context, hotelID string, adults, children int) ([]room.Room, error)

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	FindCancellable(ctx context.Context, id, userID string) (*Booking, error)
	Cancel(ctx context.Context, id string, at time.Time, reason *string) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error
	List(ctx context.Context, params ListParams) ([]Details, int, error)
	Upcoming(ctx context.Context, userID string, from, to time.Time) ([]Details, error)
	Stats(ctx context.Context) (*Stats, error)
}

const bookingColumns = `id, user_id, room_id, hotel_id, check_in, check_out,
	adults, children, total_amount, payment_status, booking_status,
	contact_phone, contact_email, special_requests, cancellation_date,
	cancellation_reason, created_at, updated_at`

const detailsSelect = `
	SELECT b.id, b.user_id, b.room_id, b.hotel_id, b.check_in, b.check_out,
	       b.adults, b.children, b.total_amount, b.payment_status, b.booking_status,
	       b.contact_phone, b.contact_email, b.special_requests, b.cancellation_date,
	       b.cancellation_reason, b.created_at, b.updated_at,
	       r.room_number, r.type AS room_type,
	       h.name AS hotel_name, h.city AS hotel_city,
	       COALESCE(u.name, '') AS user_name, COALESCE(u.email, '') AS user_email
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	JOIN hotels h ON h.id = b.hotel_id
	LEFT JOIN users u ON u.id = b.user_id`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Store {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Store {
	return &repository{db: tx}
}

func (r *repository) GetRoom(ctx context.Context, roomID string) (*room.Room, error) {
	return r.room(ctx, "get room", `SELECT `+room.Columns+` FROM rooms WHERE id = $1 AND is_active`, roomID)
}

// LockRoom reads the room row FOR UPDATE. Concurrent bookings of the same
// room serialize here for the rest of the transaction.
func (r *repository) LockRoom(ctx context.Context, roomID string) (*room.Room, error) {
	return r.room(ctx, "lock room",
		`SELECT `+room.Columns+` FROM rooms WHERE id = $1 AND is_active FOR UPDATE`, roomID)
}

func (r *repository) room(ctx context.Context, op, query, roomID string) (*room.Room, error) {
	var rm room.Room
	err := r.db.GetContext(ctx, &rm, query, roomID)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rm, nil
}

func (r *repository) ConfirmedOverlapping(
	ctx context.Context,
	roomID string,
	checkIn, checkOut time.Time,
) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1
		  AND booking_status = 'Confirmed'
		  AND check_in < $3
		  AND $2 < check_out
		ORDER BY check_in ASC`

	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, roomID, checkIn, checkOut)
	if core.IsMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list overlapping bookings: %w", err)
	}

	return bookings, nil
}

func (r *repository) HotelExists(ctx context.Context, hotelID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM hotels WHERE id::text = $1 AND is_active)`, hotelID)
	if err != nil {
		return false, fmt.Errorf("check hotel: %w", err)
	}
	return exists, nil
}

func (r *repository) Candidates(
	ctx context.Context,
	hotelID string,
	adults, children int,
) ([]room.Room, error) {
	query := `
		SELECT ` + room.Columns + `
		FROM rooms
		WHERE hotel_id::text = $1
		  AND is_active AND is_available
		  AND capacity_adults >= $2
		  AND capacity_children >= $3
		ORDER BY room_number ASC`

	var rooms []room.Room
	if err := r.db.SelectContext(ctx, &rooms, query, hotelID, adults, children); err != nil {
		return nil, fmt.Errorf("list candidate rooms: %w", err)
	}

	return rooms, nil
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, room_id, hotel_id, check_in, check_out, adults, children,
			total_amount, payment_status, booking_status, contact_phone,
			contact_email, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		b.ID,
		b.UserID,
		b.RoomID,
		b.HotelID,
		b.CheckIn,
		b.CheckOut,
		b.Adults,
		b.Children,
		b.TotalAmount,
		b.PaymentStatus,
		b.BookingStatus,
		b.ContactPhone,
		b.ContactEmail,
		b.SpecialRequests,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if core.IsExclusionViolation(err) {
			return fmt.Errorf("create booking: %w", ErrOverlap)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

func (r *repository) GetDetails(ctx context.Context, id string) (*Details, error) {
	query := detailsSelect + ` WHERE b.id = $1`

	var d Details
	err := r.db.GetContext(ctx, &d, query, id)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("get booking details: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking details: %w", err)
	}

	return &d, nil
}

// FindCancellable returns the booking only while it is Confirmed. A
// non-empty userID further restricts it to that owner.
func (r *repository) FindCancellable(
	ctx context.Context,
	id, userID string,
) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		  AND booking_status = 'Confirmed'
		  AND ($2 = '' OR user_id::text = $2)`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, userID)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("find cancellable booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find cancellable booking: %w", err)
	}

	return &b, nil
}

func (r *repository) Cancel(
	ctx context.Context,
	id string,
	at time.Time,
	reason *string,
) error {
	query := `
		UPDATE bookings
		SET booking_status = 'Cancelled',
		    cancellation_date = $2,
		    cancellation_reason = $3,
		    updated_at = NOW()
		WHERE id = $1 AND booking_status = 'Confirmed'`

	return r.execOne(ctx, "cancel booking", query, id, at, reason)
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query := `UPDATE bookings SET booking_status = $2, updated_at = NOW() WHERE id = $1`

	err := r.execOne(ctx, "update booking status", query, id, status)
	if core.IsExclusionViolation(err) {
		return fmt.Errorf("update booking status: %w", ErrOverlap)
	}
	return err
}

func (r *repository) UpdatePaymentStatus(
	ctx context.Context,
	id string,
	status PaymentStatus,
) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`

	return r.execOne(ctx, "update payment status", query, id, status)
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Details, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	add := func(cond string, arg any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, arg)
		argIdx++
	}

	if params.UserID != "" {
		add("b.user_id::text = $%d", params.UserID)
	}
	if params.HotelID != "" {
		add("b.hotel_id::text = $%d", params.HotelID)
	}
	if params.Status != "" {
		add("b.booking_status = $%d", params.Status)
	}
	if params.PaymentStatus != "" {
		add("b.payment_status = $%d", params.PaymentStatus)
	}
	if params.CheckInFrom != nil {
		add("b.check_in >= $%d", *params.CheckInFrom)
	}
	if params.CheckInTo != nil {
		add("b.check_in <= $%d", *params.CheckInTo)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM bookings b"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: count: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d",
		detailsSelect, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	var items []Details
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	return items, total, nil
}

// Upcoming returns Confirmed bookings checking in within [from, to]. An
// empty userID spans every guest.
func (r *repository) Upcoming(
	ctx context.Context,
	userID string,
	from, to time.Time,
) ([]Details, error) {
	query := detailsSelect + `
		WHERE b.booking_status = 'Confirmed'
		  AND b.check_in >= $1
		  AND b.check_in <= $2
		  AND ($3 = '' OR b.user_id::text = $3)
		ORDER BY b.check_in ASC`

	var items []Details
	if err := r.db.SelectContext(ctx, &items, query, from, to, userID); err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	return items, nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT COUNT(*) AS total_bookings,
		       COUNT(*) FILTER (WHERE booking_status = 'Confirmed') AS confirmed_bookings,
		       COUNT(*) FILTER (WHERE booking_status = 'Cancelled') AS cancelled_bookings,
		       COUNT(*) FILTER (WHERE booking_status = 'Completed') AS completed_bookings,
		       COUNT(*) FILTER (WHERE booking_status = 'No Show') AS no_show_bookings,
		       COUNT(*) FILTER (WHERE payment_status = 'Paid') AS paid_bookings,
		       COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'Paid'), 0) AS total_revenue
		FROM bookings`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	return &stats, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if core.IsMissing(err) {
			return fmt.Errorf("%s: %w", op, core.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
