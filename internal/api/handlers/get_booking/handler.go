package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/bookings"
)

const (
	route = "GET /bookings/{bookingId}"

	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ к бронированию есть только у пациента и менеджеров провайдера"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
// Пациент видит свои визиты, менеджеры провайдера видят визиты провайдера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, userID, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		h.respondError(w, err, bookingID, userID)
		return
	}

	h.logger.Info("%s - booking_id=%d returned to user_id=%d (status=%s, series=%t)",
		route, bookingID, userID, booking.Status, booking.SeriesID != nil)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) parseRequest(w http.ResponseWriter, r *http.Request) (bookingID, userID int64, ok bool) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("%s - invalid booking id %q", route, mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return 0, 0, false
	}

	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - missing user id", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, 0, false
	}

	return bookingID, userID, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, bookingID, userID int64) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - booking_id=%d not found", route, bookingID)
		handlers.RespondNotFound(w, msgNotFound)
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - user_id=%d has no access to booking_id=%d", route, userID, bookingID)
		handlers.RespondForbidden(w, msgForbidden)
	default:
		h.logger.Error("%s - booking_id=%d: %v", route, bookingID, err)
		handlers.RespondInternalError(w)
	}
}
