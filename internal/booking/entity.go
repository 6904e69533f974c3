// AngelaMos | 2026
// entity.go

package booking

import (
	"errors"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
	StatusNoShow    Status = "No Show"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return Status(s), true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

// ErrOverlap is returned by the store when the exclusion constraint rejects
// a confirmed booking that shares a night with another.
var ErrOverlap = errors.New("booking overlaps a confirmed booking")

type Booking struct {
	ID                 string        `db:"id"`
	UserID             string        `db:"user_id"`
	RoomID             string        `db:"room_id"`
	HotelID            string        `db:"hotel_id"`
	CheckIn            time.Time     `db:"check_in"`
	CheckOut           time.Time     `db:"check_out"`
	Adults             int           `db:"adults"`
	Children           int           `db:"children"`
	TotalAmount        float64       `db:"total_amount"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	BookingStatus      Status        `db:"booking_status"`
	ContactPhone       string        `db:"contact_phone"`
	ContactEmail       string        `db:"contact_email"`
	SpecialRequests    string        `db:"special_requests"`
	CancellationDate   *time.Time    `db:"cancellation_date"`
	CancellationReason *string       `db:"cancellation_reason"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// Details is a booking joined with the display fields of its room, hotel
// and guest.
type Details struct {
	Booking
	RoomNumber string `db:"room_number"`
	RoomType   string `db:"room_type"`
	HotelName  string `db:"hotel_name"`
	HotelCity  string `db:"hotel_city"`
	UserName   string `db:"user_name"`
	UserEmail  string `db:"user_email"`
}

type Stats struct {
	TotalBookings     int     `db:"total_bookings"     json:"totalBookings"`
	ConfirmedBookings int     `db:"confirmed_bookings" json:"confirmedBookings"`
	CancelledBookings int     `db:"cancelled_bookings" json:"cancelledBookings"`
	CompletedBookings int     `db:"completed_bookings" json:"completedBookings"`
	NoShowBookings    int     `db:"no_show_bookings"   json:"noShowBookings"`
	PaidBookings      int     `db:"paid_bookings"      json:"paidBookings"`
	TotalRevenue      float64 `db:"total_revenue"      json:"totalRevenue"`
}
