package delete_provider_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/AppointmentService/internal/api/handlers"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/settings"
)

const (
	msgInvalidSettingsID = "некорректный ID настроек"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "настройки не найдены"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/settings/{settingsId}
// После удаления действуют настройки вышестоящего уровня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	settingsID, err := strconv.ParseInt(vars["settingsId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /settings/{id} - Invalid settings ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSettingsID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /settings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), settingsID, userID); err != nil {
		switch {
		case errors.Is(err, settings.ErrSettingsNotFound):
			h.logger.Warn("DELETE /settings/{id} - Settings not found: settings_id=%d", settingsID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, settings.ErrAccessDenied), errors.Is(err, settings.ErrProviderNotFound):
			h.logger.Warn("DELETE /settings/{id} - Access denied: settings_id=%d, user_id=%d", settingsID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /settings/{id} - Failed to delete settings: settings_id=%d, error=%v", settingsID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /settings/{id} - Settings deleted successfully: settings_id=%d", settingsID)
	handlers.RespondNoContent(w)
}
