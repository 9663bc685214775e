package get_provider_settings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidParams     = "некорректные параметры запроса"
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

// Handle GET /api/v1/providers/{providerId}/settings
// Query params: serviceId (опционально)
// Публичный endpoint: действующие настройки с учётом иерархии, без сохранённых - значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/settings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var serviceID *int64
	if s := r.URL.Query().Get("serviceId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/settings - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		serviceID = &id
	}

	settings, err := h.service.GetEffective(r.Context(), providerID, serviceID)
	if err != nil {
		h.logger.Error("GET /providers/{id}/settings - Failed to get settings: provider_id=%d, error=%v",
			providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{id}/settings - Settings retrieved successfully: provider_id=%d, settings_id=%d",
		providerID, settings.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSettings(settings))
}
