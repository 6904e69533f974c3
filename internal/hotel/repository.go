// AngelaMos | 2026
// repository.go

package hotel

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, hotel *Hotel) error
	GetByID(ctx context.Context, id string) (*Hotel, error)
	GetForUpdate(ctx context.Context, id string) (*Hotel, error)
	Update(ctx context.Context, hotel *Hotel) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, params ListHotelsParams) ([]Hotel, int, error)
	Search(ctx context.Context, term string, page core.PageParams) ([]Hotel, int, error)
	ListByOwner(ctx context.Context, ownerID string, page core.PageParams) ([]Hotel, int, error)
	SetRating(ctx context.Context, id string, average float64, count int) error

	Lock(ctx context.Context, hotelID string) error
	ActiveRoomPrices(ctx context.Context, hotelID string) ([]float64, error)
	SetPriceRange(ctx context.Context, hotelID string, pr PriceRange) error
	AddRoomID(ctx context.Context, hotelID, roomID string) error
	RemoveRoomID(ctx context.Context, hotelID, roomID string) error
	ClearRooms(ctx context.Context, hotelID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

const hotelColumns = `id, name, description, street, city, state, country,
	zip_code, latitude, longitude, amenities, rating_average, rating_count,
	price_min, price_max, room_ids, owner_id, is_active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, hotel *Hotel) error {
	query := `
		INSERT INTO hotels (
			id, name, description, street, city, state, country, zip_code,
			latitude, longitude, amenities, owner_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING rating_average, rating_count, price_min, price_max,
		          room_ids, is_active, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Description,
		hotel.Street,
		hotel.City,
		hotel.State,
		hotel.Country,
		hotel.ZipCode,
		hotel.Latitude,
		hotel.Longitude,
		hotel.Amenities,
		hotel.OwnerID,
	).Scan(
		&hotel.RatingAverage,
		&hotel.RatingCount,
		&hotel.PriceMin,
		&hotel.PriceMax,
		&hotel.RoomIDs,
		&hotel.IsActive,
		&hotel.CreatedAt,
		&hotel.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create hotel: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Hotel, error) {
	return r.get(ctx, "get hotel",
		`SELECT `+hotelColumns+` FROM hotels WHERE id = $1 AND is_active`, id)
}

// GetForUpdate row-locks the hotel until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Hotel, error) {
	return r.get(ctx, "lock hotel",
		`SELECT `+hotelColumns+` FROM hotels WHERE id = $1 AND is_active FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, op, query, id string) (*Hotel, error) {
	var hotel Hotel
	err := r.db.GetContext(ctx, &hotel, query, id)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &hotel, nil
}

func (r *repository) Update(ctx context.Context, hotel *Hotel) error {
	query := `
		UPDATE hotels
		SET name = $2, description = $3, street = $4, city = $5, state = $6,
		    country = $7, zip_code = $8, latitude = $9, longitude = $10,
		    amenities = $11, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &hotel.UpdatedAt, query,
		hotel.ID,
		hotel.Name,
		hotel.Description,
		hotel.Street,
		hotel.City,
		hotel.State,
		hotel.Country,
		hotel.ZipCode,
		hotel.Latitude,
		hotel.Longitude,
		hotel.Amenities,
	)
	if core.IsMissing(err) {
		return fmt.Errorf("update hotel: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update hotel: %w", err)
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE hotels
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return r.execOne(ctx, "deactivate hotel", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListHotelsParams,
) ([]Hotel, int, error) {
	params.Normalize()

	conditions := []string{"is_active"}
	var args []any
	argIdx := 1

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", column, argIdx))
		args = append(args, "%"+core.EscapeLike(value)+"%")
		argIdx++
	}

	addLike("city", params.City)
	addLike("state", params.State)
	addLike("country", params.Country)

	if params.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price_min >= $%d", argIdx))
		args = append(args, *params.MinPrice)
		argIdx++
	}

	if params.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price_max <= $%d", argIdx))
		args = append(args, *params.MaxPrice)
		argIdx++
	}

	if len(params.Amenities) > 0 {
		conditions = append(conditions, fmt.Sprintf("amenities @> $%d::text[]", argIdx))
		args = append(args, core.StringArray(params.Amenities))
		argIdx++
	}

	if params.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating_average >= $%d", argIdx))
		args = append(args, *params.MinRating)
		argIdx++
	}

	return r.page(ctx, "list hotels",
		strings.Join(conditions, " AND "),
		"rating_average DESC, created_at DESC",
		params.PageParams, argIdx, args)
}

func (r *repository) Search(
	ctx context.Context,
	term string,
	page core.PageParams,
) ([]Hotel, int, error) {
	page.Normalize()

	where := `is_active AND (name ILIKE $1 OR city ILIKE $1 OR state ILIKE $1
		OR street ILIKE $1 OR description ILIKE $1)`
	args := []any{"%" + core.EscapeLike(term) + "%"}

	return r.page(ctx, "search hotels", where, "rating_average DESC", page, 2, args)
}

// ListByOwner includes deactivated hotels so owners can see their history.
func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
	page core.PageParams,
) ([]Hotel, int, error) {
	page.Normalize()

	return r.page(ctx, "list owner hotels", "owner_id = $1", "created_at DESC",
		page, 2, []any{ownerID})
}

func (r *repository) page(
	ctx context.Context,
	op, where, orderBy string,
	page core.PageParams,
	argIdx int,
	args []any,
) ([]Hotel, int, error) {
	countQuery := "SELECT COUNT(*) FROM hotels WHERE " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM hotels
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		hotelColumns, where, orderBy, argIdx, argIdx+1)

	args = append(args, page.Limit, page.Offset())

	var hotels []Hotel
	if err := r.db.SelectContext(ctx, &hotels, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return hotels, total, nil
}

func (r *repository) SetRating(
	ctx context.Context,
	id string,
	average float64,
	count int,
) error {
	query := `
		UPDATE hotels
		SET rating_average = $2, rating_count = $3, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return r.execOne(ctx, "set hotel rating", query, id, average, count)
}

// Lock takes the hotel row lock whether or not the hotel is active.
func (r *repository) Lock(ctx context.Context, hotelID string) error {
	var id string
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM hotels WHERE id = $1 FOR UPDATE`, hotelID)
	if core.IsMissing(err) {
		return fmt.Errorf("lock hotel: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock hotel: %w", err)
	}
	return nil
}

func (r *repository) ActiveRoomPrices(
	ctx context.Context,
	hotelID string,
) ([]float64, error) {
	query := `
		SELECT price_per_night
		FROM rooms
		WHERE hotel_id = $1 AND is_active`

	var prices []float64
	if err := r.db.SelectContext(ctx, &prices, query, hotelID); err != nil {
		return nil, fmt.Errorf("active room prices: %w", err)
	}

	return prices, nil
}

// SetPriceRange writes regardless of is_active so a deleted hotel can be
// reset to {0, 0}.
func (r *repository) SetPriceRange(
	ctx context.Context,
	hotelID string,
	pr PriceRange,
) error {
	query := `
		UPDATE hotels
		SET price_min = $2, price_max = $3, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "set price range", query, hotelID, pr.Min, pr.Max)
}

func (r *repository) AddRoomID(ctx context.Context, hotelID, roomID string) error {
	query := `
		UPDATE hotels
		SET room_ids = array_append(array_remove(room_ids, $2::uuid), $2::uuid),
		    updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "add hotel room", query, hotelID, roomID)
}

func (r *repository) RemoveRoomID(ctx context.Context, hotelID, roomID string) error {
	query := `
		UPDATE hotels
		SET room_ids = array_remove(room_ids, $2::uuid), updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "remove hotel room", query, hotelID, roomID)
}

// ClearRooms deactivates every room of the hotel and empties its index.
func (r *repository) ClearRooms(ctx context.Context, hotelID string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE rooms
		SET is_active = FALSE, updated_at = NOW()
		WHERE hotel_id = $1 AND is_active`, hotelID); err != nil {
		return fmt.Errorf("deactivate hotel rooms: %w", err)
	}

	return r.execOne(ctx, "clear hotel rooms", `
		UPDATE hotels
		SET room_ids = '{}', updated_at = NOW()
		WHERE id = $1`, hotelID)
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
