// AngelaMos | 2026
// dto.go

package hotel

import (
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type AddressInput struct {
	Street    string   `json:"street"    validate:"required,max=200"`
	City      string   `json:"city"      validate:"required,max=100"`
	State     string   `json:"state"     validate:"required,max=100"`
	Country   string   `json:"country"   validate:"required,max=100"`
	ZipCode   string   `json:"zipCode"   validate:"required,max=20"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type CreateHotelRequest struct {
	Name        string       `json:"name"        validate:"required,min=1,max=100"`
	Description string       `json:"description" validate:"required,max=1000"`
	Address     AddressInput `json:"address"     validate:"required"`
	Amenities   []string     `json:"amenities"   validate:"omitempty,dive,oneof=WiFi Pool Gym Spa Restaurant Bar Parking 'Pet Friendly' 'Business Center' 'Room Service'"`
}

// UpdateHotelRequest leaves nil fields untouched. An empty amenities list
// clears them.
type UpdateHotelRequest struct {
	Name        *string       `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=1000"`
	Address     *AddressInput `json:"address,omitempty"`
	Amenities   []string      `json:"amenities,omitempty"   validate:"omitempty,dive,oneof=WiFi Pool Gym Spa Restaurant Bar Parking 'Pet Friendly' 'Business Center' 'Room Service'"`
}

type RateHotelRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

type ListHotelsParams struct {
	core.PageParams
	City      string
	State     string
	Country   string
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string
	MinRating *float64
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AddressResponse struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	Country     string       `json:"country"`
	ZipCode     string       `json:"zipCode"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type RatingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type HotelResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Address     AddressResponse `json:"address"`
	Amenities   []string        `json:"amenities"`
	Rating      RatingResponse  `json:"rating"`
	PriceRange  PriceRange      `json:"priceRange"`
	RoomIDs     []string        `json:"rooms"`
	CreatedBy   string          `json:"createdBy"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func ToHotelResponse(h *Hotel) HotelResponse {
	resp := HotelResponse{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		Address: AddressResponse{
			Street:  h.Street,
			City:    h.City,
			State:   h.State,
			Country: h.Country,
			ZipCode: h.ZipCode,
		},
		Amenities:  nonNil(h.Amenities),
		Rating:     RatingResponse{Average: h.RatingAverage, Count: h.RatingCount},
		PriceRange: h.PriceRange(),
		RoomIDs:    nonNil(h.RoomIDs),
		CreatedBy:  h.OwnerID,
		IsActive:   h.IsActive,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}

	if h.Latitude != nil && h.Longitude != nil {
		resp.Address.Coordinates = &Coordinates{
			Latitude:  *h.Latitude,
			Longitude: *h.Longitude,
		}
	}

	return resp
}

func ToHotelResponseList(hotels []Hotel) []HotelResponse {
	responses := make([]HotelResponse, 0, len(hotels))
	for i := range hotels {
		responses = append(responses, ToHotelResponse(&hotels[i]))
	}
	return responses
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
