// AngelaMos | 2026
// service.go

package room

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/hotel"
)

const duplicateNumber = "room number already exists in this hotel"

type HotelReader interface {
	Get(ctx context.Context, id string) (*hotel.Hotel, error)
}

// PriceSync is triggered inside the transaction of every room write that
// can move the parent hotel's price range.
type PriceSync interface {
	RoomAdded(ctx context.Context, tx core.DBTX, hotelID, roomID string) error
	RoomPriceChanged(ctx context.Context, tx core.DBTX, hotelID string) error
	RoomRemoved(ctx context.Context, tx core.DBTX, hotelID, roomID string) error
}

type Service struct {
	repo   Repository
	hotels HotelReader
	tx     core.TxRunner
	sync   PriceSync
	logger *slog.Logger
}

func NewService(
	repo Repository,
	hotels HotelReader,
	tx core.TxRunner,
	sync PriceSync,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		hotels: hotels,
		tx:     tx,
		sync:   sync,
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf("room not found")
	}
	return room, err
}

func (s *Service) List(
	ctx context.Context,
	params ListRoomsParams,
) ([]Room, int, error) {
	if params.Type != "" && !ValidType(params.Type) {
		return nil, 0, core.Validationf("invalid room type %q", params.Type)
	}
	for _, a := range params.Amenities {
		if !ValidAmenity(a) {
			return nil, 0, core.Validationf("invalid amenity %q", a)
		}
	}

	return s.repo.List(ctx, params)
}

func (s *Service) ListByHotel(
	ctx context.Context,
	hotelID string,
	page core.PageParams,
) ([]Room, int, error) {
	if _, err := s.hotels.Get(ctx, hotelID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListByHotel(ctx, hotelID, page)
}

func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	hotelID string,
	req CreateRoomRequest,
) (*Room, error) {
	h, err := s.hotels.Get(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	if err := access.Can(p, access.CreateRoom, access.Owned(h.OwnerID)); err != nil {
		return nil, err
	}

	bed := BedType(req.BedType)
	if bed == "" {
		bed = BedDouble
	}

	room := &Room{
		ID:               uuid.New().String(),
		HotelID:          h.ID,
		RoomNumber:       strings.TrimSpace(req.RoomNumber),
		Type:             Type(req.Type),
		Description:      strings.TrimSpace(req.Description),
		PricePerNight:    req.PricePerNight,
		CapacityAdults:   req.Capacity.Adults,
		CapacityChildren: req.Capacity.Children,
		Amenities:        core.StringArray(req.Amenities),
		BedType:          bed,
		SizeSqm:          req.Size,
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		if err := s.repo.WithTx(tx).Create(ctx, room); err != nil {
			return err
		}
		return s.sync.RoomAdded(ctx, tx, room.HotelID, room.ID)
	})
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, core.Conflictf(duplicateNumber)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "room created",
		"room_id", room.ID,
		"hotel_id", room.HotelID,
		"room_number", room.RoomNumber,
	)

	return room, nil
}

func (s *Service) Update(
	ctx context.Context,
	p access.Principal,
	id string,
	req UpdateRoomRequest,
) (*Room, error) {
	if _, err := s.authorize(ctx, p, access.UpdateRoom, id); err != nil {
		return nil, err
	}

	// The patch and the price comparison use the locked row; the
	// authorization read may already be stale.
	var room *Room
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		priceChanged := req.PricePerNight != nil && *req.PricePerNight != current.PricePerNight
		applyUpdate(current, req)

		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		room = current

		if !priceChanged {
			return nil
		}
		return s.sync.RoomPriceChanged(ctx, tx, current.HotelID)
	})
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, core.Conflictf(duplicateNumber)
	}
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf("room not found")
	}
	if err != nil {
		return nil, err
	}

	return room, nil
}

// SetAvailability flips the operational flag. It leaves the price range
// alone since unavailable rooms are still active.
func (s *Service) SetAvailability(
	ctx context.Context,
	p access.Principal,
	id string,
	available bool,
) (*Room, error) {
	room, err := s.authorize(ctx, p, access.UpdateRoom, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundf("room not found")
		}
		return nil, err
	}

	room.IsAvailable = available
	return room, nil
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	room, err := s.authorize(ctx, p, access.DeleteRoom, id)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		if err := s.repo.WithTx(tx).Deactivate(ctx, id); err != nil {
			return err
		}
		return s.sync.RoomRemoved(ctx, tx, room.HotelID, room.ID)
	})
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundf("room not found")
	}
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "room deleted", "room_id", id, "hotel_id", room.HotelID)
	return nil
}

// authorize loads the room and checks the action against the owner of its
// hotel.
func (s *Service) authorize(
	ctx context.Context,
	p access.Principal,
	action access.Action,
	id string,
) (*Room, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	h, err := s.hotels.Get(ctx, room.HotelID)
	if err != nil {
		return nil, err
	}

	if err := access.Can(p, action, access.Owned(h.OwnerID)); err != nil {
		return nil, err
	}

	return room, nil
}

func applyUpdate(room *Room, req UpdateRoomRequest) {
	if req.RoomNumber != nil {
		room.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.Type != nil {
		room.Type = Type(*req.Type)
	}
	if req.Description != nil {
		room.Description = strings.TrimSpace(*req.Description)
	}
	if req.PricePerNight != nil {
		room.PricePerNight = *req.PricePerNight
	}
	if req.Capacity != nil {
		room.CapacityAdults = req.Capacity.Adults
		room.CapacityChildren = req.Capacity.Children
	}
	if req.Amenities != nil {
		room.Amenities = core.StringArray(req.Amenities)
	}
	if req.BedType != nil {
		room.BedType = BedType(*req.BedType)
	}
	if req.Size != nil {
		room.SizeSqm = *req.Size
	}
}

var _ PriceSync = (*hotel.Synchronizer)(nil)
