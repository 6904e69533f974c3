// AngelaMos | 2026
// entity.go

package hotel

import (
	"math"
	"time"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Amenity string

const (
	AmenityWiFi           Amenity = "WiFi"
	AmenityPool           Amenity = "Pool"
	AmenityGym            Amenity = "Gym"
	AmenitySpa            Amenity = "Spa"
	AmenityRestaurant     Amenity = "Restaurant"
	AmenityBar            Amenity = "Bar"
	AmenityParking        Amenity = "Parking"
	AmenityPetFriendly    Amenity = "Pet Friendly"
	AmenityBusinessCenter Amenity = "Business Center"
	AmenityRoomService    Amenity = "Room Service"
)

var amenities = map[Amenity]struct{}{
	AmenityWiFi:           {},
	AmenityPool:           {},
	AmenityGym:            {},
	AmenitySpa:            {},
	AmenityRestaurant:     {},
	AmenityBar:            {},
	AmenityParking:        {},
	AmenityPetFriendly:    {},
	AmenityBusinessCenter: {},
	AmenityRoomService:    {},
}

func ValidAmenity(s string) bool {
	_, ok := amenities[Amenity(s)]
	return ok
}

type Hotel struct {
	ID            string           `db:"id"`
	Name          string           `db:"name"`
	Description   string           `db:"description"`
	Street        string           `db:"street"`
	City          string           `db:"city"`
	State         string           `db:"state"`
	Country       string           `db:"country"`
	ZipCode       string           `db:"zip_code"`
	Latitude      *float64         `db:"latitude"`
	Longitude     *float64         `db:"longitude"`
	Amenities     core.StringArray `db:"amenities"`
	RatingAverage float64          `db:"rating_average"`
	RatingCount   int              `db:"rating_count"`
	PriceMin      float64          `db:"price_min"`
	PriceMax      float64          `db:"price_max"`
	RoomIDs       core.StringArray `db:"room_ids"`
	OwnerID       string           `db:"owner_id"`
	IsActive      bool             `db:"is_active"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

func (h *Hotel) PriceRange() PriceRange {
	return PriceRange{Min: h.PriceMin, Max: h.PriceMax}
}

// PriceRange is the min and max nightly price over a hotel's active rooms.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComputePriceRange returns {0, 0} when no prices are given.
func ComputePriceRange(prices []float64) PriceRange {
	if len(prices) == 0 {
		return PriceRange{}
	}

	pr := PriceRange{Min: prices[0], Max: prices[0]}
	for _, p := range prices[1:] {
		pr.Min = math.Min(pr.Min, p)
		pr.Max = math.Max(pr.Max, p)
	}
	return pr
}

// NextRating folds one more score into a running average, rounded to a
// single decimal.
func NextRating(average float64, count int, score float64) (float64, int) {
	total := average*float64(count) + score
	next := count + 1
	return math.Round(total/float64(next)*10) / 10, next
}
