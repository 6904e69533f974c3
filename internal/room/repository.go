// AngelaMos | 2026
// repository.go

package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	GetForUpdate(ctx context.Context, id string) (*Room, error)
	Update(ctx context.Context, room *Room) error
	SetAvailability(ctx context.Context, id string, available bool) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, params ListRoomsParams) ([]Room, int, error)
	ListByHotel(ctx context.Context, hotelID string, page core.PageParams) ([]Room, int, error)
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

func (r *repository) Create(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (
			id, hotel_id, room_number, type, description, price_per_night,
			capacity_adults, capacity_children, amenities, bed_type, size_sqm
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING is_available, is_active, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		room.ID,
		room.HotelID,
		room.RoomNumber,
		room.Type,
		room.Description,
		room.PricePerNight,
		room.CapacityAdults,
		room.CapacityChildren,
		room.Amenities,
		room.BedType,
		room.SizeSqm,
	).Scan(&room.IsAvailable, &room.IsActive, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create room: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Room, error) {
	return r.get(ctx, "get room",
		`SELECT `+Columns+` FROM rooms WHERE id = $1 AND is_active`, id)
}

// GetForUpdate holds the row lock until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Room, error) {
	return r.get(ctx, "lock room",
		`SELECT `+Columns+` FROM rooms WHERE id = $1 AND is_active FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, op, query, id string) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if core.IsMissing(err) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &room, nil
}

func (r *repository) Update(ctx context.Context, room *Room) error {
	query := `
		UPDATE rooms
		SET room_number = $2, type = $3, description = $4, price_per_night = $5,
		    capacity_adults = $6, capacity_children = $7, amenities = $8,
		    bed_type = $9, size_sqm = $10, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &room.UpdatedAt, query,
		room.ID,
		room.RoomNumber,
		room.Type,
		room.Description,
		room.PricePerNight,
		room.CapacityAdults,
		room.CapacityChildren,
		room.Amenities,
		room.BedType,
		room.SizeSqm,
	)
	if core.IsMissing(err) {
		return fmt.Errorf("update room: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update room: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update room: %w", err)
	}

	return nil
}

func (r *repository) SetAvailability(
	ctx context.Context,
	id string,
	available bool,
) error {
	query := `
		UPDATE rooms
		SET is_available = $2, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return r.execOne(ctx, "set room availability", query, id, available)
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE rooms
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active`

	return r.execOne(ctx, "deactivate room", query, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListRoomsParams,
) ([]Room, int, error) {
	params.Normalize()

	conditions := []string{"is_active"}
	var args []any
	argIdx := 1

	add := func(cond string, arg any) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, arg)
		argIdx++
	}

	if params.HotelID != "" {
		add("hotel_id::text = $%d", params.HotelID)
	}
	if params.Type != "" {
		add("type = $%d", params.Type)
	}
	if params.MinPrice != nil {
		add("price_per_night >= $%d", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		add("price_per_night <= $%d", *params.MaxPrice)
	}
	if params.IsAvailable != nil {
		add("is_available = $%d", *params.IsAvailable)
	}
	if len(params.Amenities) > 0 {
		add("amenities && $%d::text[]", core.StringArray(params.Amenities))
	}

	return r.page(ctx, "list rooms", strings.Join(conditions, " AND "),
		"price_per_night ASC, room_number ASC", params.PageParams, argIdx, args)
}

func (r *repository) ListByHotel(
	ctx context.Context,
	hotelID string,
	page core.PageParams,
) ([]Room, int, error) {
	page.Normalize()

	return r.page(ctx, "list hotel rooms", "is_active AND hotel_id::text = $1",
		"room_number ASC", page, 2, []any{hotelID})
}

func (r *repository) page(
	ctx context.Context,
	op, where, orderBy string,
	page core.PageParams,
	argIdx int,
	args []any,
) ([]Room, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM rooms WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM rooms
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		Columns, where, orderBy, argIdx, argIdx+1)

	args = append(args, page.Limit, page.Offset())

	var rooms []Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, total, nil
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
