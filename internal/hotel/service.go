// AngelaMos | 2026
// service.go

package hotel

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/core"
)

type Service struct {
	repo   Repository
	tx     core.TxRunner
	sync   *Synchronizer
	logger *slog.Logger
}

func NewService(
	repo Repository,
	tx core.TxRunner,
	sync *Synchronizer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tx: tx, sync: sync, logger: logger}
}

// Get returns an active hotel, or NotFound "hotel not found".
func (s *Service) Get(ctx context.Context, id string) (*Hotel, error) {
	h, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf("hotel not found")
	}
	return h, err
}

func (s *Service) List(
	ctx context.Context,
	params ListHotelsParams,
) ([]Hotel, int, error) {
	for _, a := range params.Amenities {
		if !ValidAmenity(a) {
			return nil, 0, core.Validationf("invalid amenity %q", a)
		}
	}

	if params.MinPrice != nil && params.MaxPrice != nil &&
		*params.MinPrice > *params.MaxPrice {
		return nil, 0, core.Validationf("minPrice must not exceed maxPrice")
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Search(
	ctx context.Context,
	term string,
	page core.PageParams,
) ([]Hotel, int, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, 0, core.Validationf("search term is required")
	}

	return s.repo.Search(ctx, term, page)
}

func (s *Service) ListMine(
	ctx context.Context,
	p access.Principal,
	page core.PageParams,
) ([]Hotel, int, error) {
	if p.IsZero() {
		return nil, 0, core.UnauthorizedError("")
	}

	return s.repo.ListByOwner(ctx, p.UserID, page)
}

func (s *Service) Create(
	ctx context.Context,
	p access.Principal,
	req CreateHotelRequest,
) (*Hotel, error) {
	if err := access.Can(p, access.CreateHotel, access.Resource{}); err != nil {
		return nil, err
	}

	h := &Hotel{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Amenities:   dedupe(req.Amenities),
		OwnerID:     p.UserID,
	}
	applyAddress(h, req.Address)

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "hotel created",
		"hotel_id", h.ID,
		"owner_id", h.OwnerID,
	)

	return h, nil
}

func (s *Service) Update(
	ctx context.Context,
	p access.Principal,
	id string,
	req UpdateHotelRequest,
) (*Hotel, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Can(p, access.UpdateHotel, access.Owned(h.OwnerID)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		h.Description = strings.TrimSpace(*req.Description)
	}
	if req.Address != nil {
		applyAddress(h, *req.Address)
	}
	if req.Amenities != nil {
		h.Amenities = dedupe(req.Amenities)
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

// Delete deactivates the hotel and all of its rooms in one transaction.
func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	h, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := access.Can(p, access.DeleteHotel, access.Owned(h.OwnerID)); err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		if err := s.repo.WithTx(tx).Deactivate(ctx, id); err != nil {
			return err
		}
		return s.sync.HotelRemoved(ctx, tx, id)
	})
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundf("hotel not found")
	}
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "hotel deleted", "hotel_id", id, "by", p.UserID)
	return nil
}

// Rate adds one score to the hotel's running average.
func (s *Service) Rate(
	ctx context.Context,
	p access.Principal,
	id string,
	score float64,
) (*Hotel, error) {
	if p.IsZero() {
		return nil, core.UnauthorizedError("")
	}
	if score < 1 || score > 5 {
		return nil, core.Validationf("rating must be between 1 and 5")
	}

	var rated *Hotel
	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		h, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		h.RatingAverage, h.RatingCount = NextRating(h.RatingAverage, h.RatingCount, score)
		if err := repo.SetRating(ctx, id, h.RatingAverage, h.RatingCount); err != nil {
			return err
		}

		rated = h
		return nil
	})
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundf("hotel not found")
	}
	if err != nil {
		return nil, err
	}

	return rated, nil
}

func applyAddress(h *Hotel, a AddressInput) {
	h.Street = strings.TrimSpace(a.Street)
	h.City = strings.TrimSpace(a.City)
	h.State = strings.TrimSpace(a.State)
	h.Country = strings.TrimSpace(a.Country)
	h.ZipCode = strings.TrimSpace(a.ZipCode)
	h.Latitude = a.Latitude
	h.Longitude = a.Longitude
}

func dedupe(values []string) core.StringArray {
	out := make(core.StringArray, 0, len(values))
	for _, v := range values {
		if !out.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}
