// AngelaMos | 2026
// entity.go

package room

import (
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Type string

const (
	TypeSingle       Type = "Single"
	TypeDouble       Type = "Double"
	TypeTwin         Type = "Twin"
	TypeSuite        Type = "Suite"
	TypeDeluxe       Type = "Deluxe"
	TypePresidential Type = "Presidential"
)

func ValidType(s string) bool {
	switch Type(s) {
	case TypeSingle, TypeDouble, TypeTwin, TypeSuite, TypeDeluxe, TypePresidential:
		return true
	}
	return false
}

type BedType string

const (
	BedSingle   BedType = "Single"
	BedDouble   BedType = "Double"
	BedQueen    BedType = "Queen"
	BedKing     BedType = "King"
	BedTwinBeds BedType = "Twin Beds"
)

var amenities = map[string]struct{}{
	"AC":          {},
	"TV":          {},
	"WiFi":        {},
	"Mini Bar":    {},
	"Safe":        {},
	"Balcony":     {},
	"Sea View":    {},
	"City View":   {},
	"Jacuzzi":     {},
	"Kitchenette": {},
}

func ValidAmenity(s string) bool {
	_, ok := amenities[s]
	return ok
}

// Columns is the select list for Room, shared with readers in other
// packages that scan rooms.
const Columns = `id, hotel_id, room_number, type, description, price_per_night,
	capacity_adults, capacity_children, amenities, bed_type, size_sqm,
	is_available, is_active, created_at, updated_at`

type Room struct {
	ID               string           `db:"id"`
	HotelID          string           `db:"hotel_id"`
	RoomNumber       string           `db:"room_number"`
	Type             Type             `db:"type"`
	Description      string           `db:"description"`
	PricePerNight    float64          `db:"price_per_night"`
	CapacityAdults   int              `db:"capacity_adults"`
	CapacityChildren int              `db:"capacity_children"`
	Amenities        core.StringArray `db:"amenities"`
	BedType          BedType          `db:"bed_type"`
	SizeSqm          float64          `db:"size_sqm"`
	IsAvailable      bool             `db:"is_available"`
	IsActive         bool             `db:"is_active"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

// Fits reports whether the room can hold the party.
func (r *Room) Fits(adults, children int) bool {
	return adults <= r.CapacityAdults && children <= r.CapacityChildren
}
