// AngelaMos | 2026
// handler.go

package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

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
	limiter func(http.Handler) http.Handler,
) {
	r.Get("/hotels/{hotelID}/available-rooms", h.AvailableRooms)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(limiter).Post("/bookings", h.Create)
		r.Get("/bookings", h.ListAll)
		r.Get("/bookings/my-bookings", h.ListMine)
		r.Get("/bookings/upcoming", h.Upcoming)
		r.Get("/bookings/{bookingID}", h.Get)
		r.Delete("/bookings/{bookingID}", h.Cancel)
		r.Patch("/bookings/{bookingID}/status", h.UpdateStatus)
		r.Patch("/bookings/{bookingID}/payment", h.UpdatePaymentStatus)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/stats/bookings", h.Stats)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Created(w, ToBookingResponse(d))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "bookingID"),
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	items, total, err := h.service.ListMine(r.Context(), middleware.GetPrincipal(r.Context()), params)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToBookingResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		core.HandleError(w, err)
		return
	}
	q := r.URL.Query()
	params.UserID = q.Get("userId")
	params.HotelID = q.Get("hotelId")

	items, total, err := h.service.ListAll(r.Context(), middleware.GetPrincipal(r.Context()), params)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.Paginated(w, ToBookingResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Upcoming(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		core.QueryInt(r, "days", 0),
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToBookingResponseList(items))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	d, err := h.service.Cancel(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "bookingID"),
		req.Reason,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "bookingID"),
		req.Status,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.UpdatePaymentStatus(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "bookingID"),
		req.PaymentStatus,
	)
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) AvailableRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.service.AvailableRooms(r.Context(), SearchQuery{
		HotelID:  chi.URLParam(r, "hotelID"),
		CheckIn:  q.Get("checkIn"),
		CheckOut: q.Get("checkOut"),
		Adults:   core.QueryInt(r, "adults", 1),
		Children: core.QueryInt(r, "children", 0),
	})
	if err != nil {
		core.HandleError(w, err)
		return
	}

	core.OK(w, ToAvailableRoomsResponse(result))
}

func listParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	params := ListParams{
		PageParams:    core.PageParamsFromRequest(r),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
	}

	var err error
	if params.CheckInFrom, err = queryDate(r, "checkInFrom"); err != nil {
		return ListParams{}, err
	}
	if params.CheckInTo, err = queryDate(r, "checkInTo"); err != nil {
		return ListParams{}, err
	}

	return params, nil
}

func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}

	t, err := ParseDate(raw)
	if err != nil {
		return nil, core.Validationf("invalid %s date %q", key, raw)
	}
	return &t, nil
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
