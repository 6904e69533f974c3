// AngelaMos | 2026
// dto.go

package room

import (
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type CapacityInput struct {
	Adults   int `json:"adults"   validate:"required,min=1,max=20"`
	Children int `json:"children" validate:"min=0,max=20"`
}

type CreateRoomRequest struct {
	RoomNumber    string        `json:"roomNumber"    validate:"required,max=32"`
	Type          string        `json:"type"          validate:"required,oneof=Single Double Twin Suite Deluxe Presidential"`
	Description   string        `json:"description"   validate:"max=500"`
	PricePerNight float64       `json:"pricePerNight" validate:"min=0"`
	Capacity      CapacityInput `json:"capacity"      validate:"required"`
	Amenities     []string      `json:"amenities"     validate:"omitempty,dive,oneof=AC TV WiFi 'Mini Bar' Safe Balcony 'Sea View' 'City View' Jacuzzi Kitchenette"`
	BedType       string        `json:"bedType"       validate:"omitempty,oneof=Single Double Queen King 'Twin Beds'"`
	Size          float64       `json:"size"          validate:"min=0"`
}

type UpdateRoomRequest struct {
	RoomNumber    *string        `json:"roomNumber,omitempty"    validate:"omitempty,min=1,max=32"`
	Type          *string        `json:"type,omitempty"          validate:"omitempty,oneof=Single Double Twin Suite Deluxe Presidential"`
	Description   *string        `json:"description,omitempty"   validate:"omitempty,max=500"`
	PricePerNight *float64       `json:"pricePerNight,omitempty" validate:"omitempty,min=0"`
	Capacity      *CapacityInput `json:"capacity,omitempty"`
	Amenities     []string       `json:"amenities,omitempty"     validate:"omitempty,dive,oneof=AC TV WiFi 'Mini Bar' Safe Balcony 'Sea View' 'City View' Jacuzzi Kitchenette"`
	BedType       *string        `json:"bedType,omitempty"       validate:"omitempty,oneof=Single Double Queen King 'Twin Beds'"`
	Size          *float64       `json:"size,omitempty"          validate:"omitempty,min=0"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

type ListRoomsParams struct {
	core.PageParams
	HotelID     string
	Type        string
	MinPrice    *float64
	MaxPrice    *float64
	IsAvailable *bool
	Amenities   []string
}

type CapacityResponse struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type RoomResponse struct {
	ID            string           `json:"id"`
	HotelID       string           `json:"hotelId"`
	RoomNumber    string           `json:"roomNumber"`
	Type          string           `json:"type"`
	Description   string           `json:"description"`
	PricePerNight float64          `json:"pricePerNight"`
	Capacity      CapacityResponse `json:"capacity"`
	Amenities     []string         `json:"amenities"`
	BedType       string           `json:"bedType"`
	Size          float64          `json:"size"`
	IsAvailable   bool             `json:"isAvailable"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func ToRoomResponse(r *Room) RoomResponse {
	amenities := []string(r.Amenities)
	if amenities == nil {
		amenities = []string{}
	}

	return RoomResponse{
		ID:            r.ID,
		HotelID:       r.HotelID,
		RoomNumber:    r.RoomNumber,
		Type:          string(r.Type),
		Description:   r.Description,
		PricePerNight: r.PricePerNight,
		Capacity: CapacityResponse{
			Adults:   r.CapacityAdults,
			Children: r.CapacityChildren,
		},
		Amenities:   amenities,
		BedType:     string(r.BedType),
		Size:        r.SizeSqm,
		IsAvailable: r.IsAvailable,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToRoomResponseList(rooms []Room) []RoomResponse {
	responses := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		responses = append(responses, ToRoomResponse(&rooms[i]))
	}
	return responses
}
