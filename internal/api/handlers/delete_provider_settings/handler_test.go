package delete_provider_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/settings"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

type fakeService struct {
	deleted int64
	err     error
}

func (f *fakeService) Delete(_ context.Context, id int64, _ int64) error {
	f.deleted = id
	return f.err
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "ok", target: "/settings/4", userID: 100, wantStatus: http.StatusNoContent},
		{name: "bad id", target: "/settings/x", userID: 100, wantStatus: http.StatusBadRequest},
		{name: "no user", target: "/settings/4", wantStatus: http.StatusUnauthorized},
		{name: "not found", target: "/settings/4", userID: 100, err: settings.ErrSettingsNotFound, wantStatus: http.StatusNotFound},
		{name: "not a manager", target: "/settings/4", userID: 7, err: settings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", target: "/settings/4", userID: 100, err: settings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			router := mux.NewRouter()
			router.HandleFunc("/settings/{settingsId}", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodDelete)

			r := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			if tt.userID > 0 {
				r = r.WithContext(middleware.WithUserID(r.Context(), tt.userID))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, int64(4), svc.deleted)
			}
		})
	}
}
