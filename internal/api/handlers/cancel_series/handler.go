package cancel_series

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/bookings"
)

const (
	msgInvalidSeriesID    = "некорректный ID серии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "серия не найдена"
	msgForbidden          = "доступ запрещен"
	msgTooLateToCancel    = "до одного из визитов серии меньше 24 часов, отмена невозможна"
	msgInvalidData        = "некорректная причина отмены"
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

// Handle PATCH /api/v1/series/{seriesId}/cancel
// Отменяет все будущие активные вхождения серии, прошедшие не трогает
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seriesID := mux.Vars(r)["seriesId"]
	if _, err := uuid.Parse(seriesID); err != nil {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid series ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeriesID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /series/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelSeriesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /series/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CancelSeries(r.Context(), seriesID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrSeriesNotFound):
			h.logger.Warn("PATCH /series/{id}/cancel - Series not found: series_id=%s", seriesID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /series/{id}/cancel - Access denied: series_id=%s, user_id=%d", seriesID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCancellationWindow):
			h.logger.Warn("PATCH /series/{id}/cancel - Too late to cancel: series_id=%s", seriesID)
			handlers.RespondUnprocessable(w, msgTooLateToCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /series/{id}/cancel - Invalid data: series_id=%s, error=%v", seriesID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /series/{id}/cancel - Failed to cancel series: series_id=%s, error=%v", seriesID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /series/{id}/cancel - Series cancelled successfully: series_id=%s, cancelled=%d",
		seriesID, len(result.CancelledIDs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
