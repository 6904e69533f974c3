// AngelaMos | 2026
// handler.go

package hotel

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes uses full paths instead of r.Route so the room handler can
// add routes under /hotels/{hotelID} as well.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/hotels", h.List)
	r.Get("/hotels/search", h.Search)
	r.Get("/hotels/{hotelID}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/hotels/mine", h.ListMine)
		r.Post("/hotels", h.Create)
		r.Put("/hotels/{hotelID}", h.Update)
		r.Delete("/hotels/{hotelID}", h.Delete)
		r.Post("/hotels/{hotelID}/rating", h.Rate)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListHotelsParams{
		PageParams: core.PageParamsFromRequest(r),
		City:       q.Get("city"),
		State:      q.Get("state"),
		Country:    q.Get("country"),
		MinPrice:   core.QueryFloat(r, "minPrice"),
		MaxPrice:   core.QueryFloat(r, "maxPrice"),
		Amenities:  splitList(q.Get("amenities")),
		MinRating:  core.QueryFloat(r, "minRating"),
	}

	hotels, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToHotelResponseList(hotels), params.Page, params.Limit, total)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	page := core.PageParamsFromRequest(r)

	hotels, total, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToHotelResponseList(hotels), page.Page, page.Limit, total)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	page := core.PageParamsFromRequest(r)

	hotels, total, err := h.service.ListMine(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		page,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToHotelResponseList(hotels), page.Page, page.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.service.Get(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToHotelResponse(hotel))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHotelRequest
	if !h.decode(w, r, &req) {
		return
	}

	hotel, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Created(w, ToHotelResponse(hotel))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateHotelRequest
	if !h.decode(w, r, &req) {
		return
	}

	hotel, err := h.service.Update(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "hotelID"),
		req,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToHotelResponse(hotel))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "hotelID"),
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	var req RateHotelRequest
	if !h.decode(w, r, &req) {
		return
	}

	hotel, err := h.service.Rate(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "hotelID"),
		req.Rating,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToHotelResponse(hotel))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
