// AngelaMos | 2026
// synchronizer.go

package hotel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

// Synchronizer maintains the hotel columns derived from its rooms: the
// room_ids index and the price range. Every trigger takes the transaction
// the room write ran in, so the hotel is consistent by the time that
// transaction commits.
type Synchronizer struct {
	hotels Repository
	logger *slog.Logger
}

func NewSynchronizer(hotels Repository, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{hotels: hotels, logger: logger}
}

func (s *Synchronizer) RoomAdded(
	ctx context.Context,
	tx core.DBTX,
	hotelID, roomID string,
) error {
	repo := s.hotels.WithTx(tx)

	if err := repo.AddRoomID(ctx, hotelID, roomID); err != nil {
		return fmt.Errorf("sync room added: %w", err)
	}

	return s.recompute(ctx, repo, hotelID)
}

func (s *Synchronizer) RoomPriceChanged(
	ctx context.Context,
	tx core.DBTX,
	hotelID string,
) error {
	return s.recompute(ctx, s.hotels.WithTx(tx), hotelID)
}

func (s *Synchronizer) RoomRemoved(
	ctx context.Context,
	tx core.DBTX,
	hotelID, roomID string,
) error {
	repo := s.hotels.WithTx(tx)

	if err := repo.RemoveRoomID(ctx, hotelID, roomID); err != nil {
		return fmt.Errorf("sync room removed: %w", err)
	}

	return s.recompute(ctx, repo, hotelID)
}

// HotelRemoved deactivates all rooms of the hotel, which leaves a {0, 0}
// range.
func (s *Synchronizer) HotelRemoved(
	ctx context.Context,
	tx core.DBTX,
	hotelID string,
) error {
	repo := s.hotels.WithTx(tx)

	if err := repo.ClearRooms(ctx, hotelID); err != nil {
		return fmt.Errorf("sync hotel removed: %w", err)
	}

	return s.recompute(ctx, repo, hotelID)
}

// recompute locks the hotel row before reading prices, so concurrent room
// writes on one hotel apply their recomputes one after another.
func (s *Synchronizer) recompute(
	ctx context.Context,
	repo Repository,
	hotelID string,
) error {
	if err := repo.Lock(ctx, hotelID); err != nil {
		return fmt.Errorf("sync price range: %w", err)
	}

	prices, err := repo.ActiveRoomPrices(ctx, hotelID)
	if err != nil {
		return fmt.Errorf("sync price range: %w", err)
	}

	pr := ComputePriceRange(prices)
	if err := repo.SetPriceRange(ctx, hotelID, pr); err != nil {
		return fmt.Errorf("sync price range: %w", err)
	}

	s.logger.DebugContext(ctx, "hotel price range synced",
		"hotel_id", hotelID,
		"rooms", len(prices),
		"min", pr.Min,
		"max", pr.Max,
	)

	return nil
}
