package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректное время, ожидается RFC3339 и дата окончания серии YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidData          = "некорректные данные бронирования"
	msgSlotConflict         = "провайдер занят в выбранное время"
	msgProviderNotFound     = "провайдер не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgFamilyMemberNotFound = "член семьи не найден"
	msgTooLateToBook        = "слишком поздно для бронирования этого времени"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Пациент - автор запроса (через middleware Auth)
	patientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(patientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *createBooking.SlotConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings - Slot conflict: patient_id=%d, provider_id=%d, date=%s",
				patientID, req.ProviderID, conflictErr.Date.Format(time.RFC3339))
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Code:    http.StatusConflict,
				Message: msgSlotConflict,
				Date:    conflictErr.Date.Format(time.RFC3339),
			})

		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: provider_id=%d, service_id=%v", req.ProviderID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrFamilyMemberNotFound):
			h.logger.Warn("POST /bookings - Family member not found: patient_id=%d, member_id=%v", patientID, req.FamilyMemberID)
			handlers.RespondNotFound(w, msgFamilyMemberNotFound)

		case errors.Is(err, createBooking.ErrLeadTimeViolation):
			h.logger.Warn("POST /bookings - Too late to book: patient_id=%d, provider_id=%d", patientID, req.ProviderID)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid data: patient_id=%d, error=%v", patientID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: patient_id=%d, provider_id=%d, error=%v",
				patientID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Bookings created successfully: ids=%v, patient_id=%d, provider_id=%d",
		result.BookingIDs, patientID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
