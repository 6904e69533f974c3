// AngelaMos | 2026
// handler.go

package room

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Get("/rooms", h.List)
	r.Get("/rooms/{roomID}", h.Get)
	r.Get("/hotels/{hotelID}/rooms", h.ListByHotel)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/hotels/{hotelID}/rooms", h.Create)
		r.Put("/rooms/{roomID}", h.Update)
		r.Patch("/rooms/{roomID}/availability", h.SetAvailability)
		r.Delete("/rooms/{roomID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListRoomsParams{
		PageParams:  core.PageParamsFromRequest(r),
		HotelID:     q.Get("hotelId"),
		Type:        q.Get("type"),
		MinPrice:    core.QueryFloat(r, "minPrice"),
		MaxPrice:    core.QueryFloat(r, "maxPrice"),
		IsAvailable: core.QueryBool(r, "isAvailable"),
	}
	if raw := q.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				params.Amenities = append(params.Amenities, a)
			}
		}
	}

	rooms, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToRoomResponseList(rooms), params.Page, params.Limit, total)
}

func (h *Handler) ListByHotel(w http.ResponseWriter, r *http.Request) {
	page := core.PageParamsFromRequest(r)

	rooms, total, err := h.service.ListByHotel(r.Context(), chi.URLParam(r, "hotelID"), page)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToRoomResponseList(rooms), page.Page, page.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.Get(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToRoomResponse(room))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	room, err := h.service.Create(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "hotelID"),
		req,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Created(w, ToRoomResponse(room))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	room, err := h.service.Update(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "roomID"),
		req,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToRoomResponse(room))
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	room, err := h.service.SetAvailability(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "roomID"),
		*req.IsAvailable,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToRoomResponse(room))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "roomID"),
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.NoContent(w)
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
