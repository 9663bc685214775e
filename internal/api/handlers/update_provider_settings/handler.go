package update_provider_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/settings"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

const (
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "настройки не найдены"
	msgProviderNotFound   = "провайдер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные настроек"
	msgAlreadyExist       = "настройки для этого уровня уже существуют"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/settings
// Обновляет настройки уровня (провайдер или услуга), если их нет - создаёт
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/settings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{id}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateProviderSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Ищем действующие настройки по (providerId, serviceId)
	current, err := h.service.GetEffective(r.Context(), providerID, req.ServiceID)
	if err != nil {
		h.logger.Error("PUT /providers/{id}/settings - Failed to get settings: provider_id=%d, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	var (
		result *models.SettingsResponse
		status = http.StatusOK
	)
	if sameLevel(current, req.ServiceID) {
		result, err = h.service.Update(r.Context(), current.ID, req.ToUpdateRequest(userID))
	} else {
		status = http.StatusCreated
		result, err = h.service.Create(r.Context(), req.ToCreateRequest(providerID, userID, current))
	}
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotFound):
			h.logger.Warn("PUT /providers/{id}/settings - Settings not found during update: settings_id=%d", current.ID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/{id}/settings - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, settings.ErrServiceNotFound):
			h.logger.Warn("PUT /providers/{id}/settings - Service not found: provider_id=%d, service_id=%v", providerID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, settings.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id}/settings - Access denied: provider_id=%d, user_id=%d", providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, settings.ErrSettingsAlreadyExist):
			h.logger.Warn("PUT /providers/{id}/settings - Concurrent create: provider_id=%d, service_id=%v", providerID, req.ServiceID)
			handlers.RespondConflict(w, msgAlreadyExist)

		case errors.Is(err, settings.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/settings - Invalid data: provider_id=%d, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /providers/{id}/settings - Failed to save settings: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/settings - Settings saved successfully: provider_id=%d, settings_id=%d",
		providerID, result.ID)
	handlers.RespondJSON(w, status, result)
}
