package list_provider_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/settings"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

type fakeService struct{ err error }

func (f fakeService) GetAllByProvider(_ context.Context, providerID int64, _ int64) (*models.SettingsListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SettingsListResponse{Settings: []models.SettingsResponse{{ProviderID: providerID, IsDefault: true}}}, nil
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "ok", target: "/providers/3/settings/all", userID: 100, wantStatus: http.StatusOK},
		{name: "bad id", target: "/providers/x/settings/all", userID: 100, wantStatus: http.StatusBadRequest},
		{name: "no user", target: "/providers/3/settings/all", wantStatus: http.StatusUnauthorized},
		{name: "unknown provider", target: "/providers/3/settings/all", userID: 100, err: settings.ErrProviderNotFound, wantStatus: http.StatusNotFound},
		{name: "not a manager", target: "/providers/3/settings/all", userID: 7, err: settings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", target: "/providers/3/settings/all", userID: 100, err: settings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.HandleFunc("/providers/{providerId}/settings/all", NewHandler(fakeService{err: tt.err}, logger.Nop()).Handle)

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.userID > 0 {
				r = r.WithContext(middleware.WithUserID(r.Context(), tt.userID))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
