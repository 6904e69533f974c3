// AngelaMos | 2026
// dto.go

package booking

import (
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/room"
)

type GuestsInput struct {
	Adults   int `json:"adults"   validate:"required,min=1,max=20"`
	Children int `json:"children" validate:"min=0,max=20"`
}

type ContactInput struct {
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type CreateBookingRequest struct {
	RoomID          string       `json:"roomId"          validate:"required"`
	CheckIn         string       `json:"checkIn"         validate:"required"`
	CheckOut        string       `json:"checkOut"        validate:"required"`
	Guests          GuestsInput  `json:"guests"          validate:"required"`
	ContactInfo     ContactInput `json:"contactInfo"     validate:"required"`
	SpecialRequests string       `json:"specialRequests" validate:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type PaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type ListParams struct {
	core.PageParams
	UserID        string
	HotelID       string
	Status        string
	PaymentStatus string
	CheckInFrom   *time.Time
	CheckInTo     *time.Time
}

type GuestsResponse struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type ContactResponse struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type RoomRef struct {
	ID         string `json:"id"`
	RoomNumber string `json:"roomNumber,omitempty"`
	Type       string `json:"type,omitempty"`
}

type HotelRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	User               UserRef         `json:"user"`
	Room               RoomRef         `json:"room"`
	Hotel              HotelRef        `json:"hotel"`
	CheckIn            string          `json:"checkIn"`
	CheckOut           string          `json:"checkOut"`
	Nights             int             `json:"nights"`
	Guests             GuestsResponse  `json:"guests"`
	TotalAmount        float64         `json:"totalAmount"`
	PaymentStatus      string          `json:"paymentStatus"`
	BookingStatus      string          `json:"bookingStatus"`
	ContactInfo        ContactResponse `json:"contactInfo"`
	SpecialRequests    string          `json:"specialRequests,omitempty"`
	CancellationDate   *time.Time      `json:"cancellationDate,omitempty"`
	CancellationReason *string         `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func ToBookingResponse(d *Details) BookingResponse {
	b := d.Booking
	return BookingResponse{
		ID:    b.ID,
		User:  UserRef{ID: b.UserID, Name: d.UserName, Email: d.UserEmail},
		Room:  RoomRef{ID: b.RoomID, RoomNumber: d.RoomNumber, Type: d.RoomType},
		Hotel: HotelRef{ID: b.HotelID, Name: d.HotelName, City: d.HotelCity},

		CheckIn:  b.CheckIn.Format(DateLayout),
		CheckOut: b.CheckOut.Format(DateLayout),
		Nights:   b.Nights(),
		Guests:   GuestsResponse{Adults: b.Adults, Children: b.Children},

		TotalAmount:   b.TotalAmount,
		PaymentStatus: string(b.PaymentStatus),
		BookingStatus: string(b.BookingStatus),
		ContactInfo:   ContactResponse{Phone: b.ContactPhone, Email: b.ContactEmail},

		SpecialRequests:    b.SpecialRequests,
		CancellationDate:   b.CancellationDate,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func ToBookingResponseList(items []Details) []BookingResponse {
	responses := make([]BookingResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToBookingResponse(&items[i]))
	}
	return responses
}

type AvailableRoomsResponse struct {
	HotelID  string              `json:"hotelId"`
	CheckIn  string              `json:"checkIn"`
	CheckOut string              `json:"checkOut"`
	Nights   int                 `json:"nights"`
	Rooms    []room.RoomResponse `json:"rooms"`
}

func ToAvailableRoomsResponse(a *Availability) AvailableRoomsResponse {
	return AvailableRoomsResponse{
		HotelID:  a.HotelID,
		CheckIn:  a.Stay.CheckIn.Format(DateLayout),
		CheckOut: a.Stay.CheckOut.Format(DateLayout),
		Nights:   a.Stay.Nights(),
		Rooms:    room.ToRoomResponseList(a.Rooms),
	}
}
