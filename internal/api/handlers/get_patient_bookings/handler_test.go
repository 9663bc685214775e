package get_patient_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/service/bookings"
	"github.com/m04kA/AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

type fakeService struct {
	got *models.GetPatientBookingsRequest
	err error
}

func (f *fakeService) GetPatientBookings(_ context.Context, req *models.GetPatientBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func serve(svc *fakeService, target string, userID int64) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/patients/{patientId}/bookings", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodGet)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandler_Handle(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, "/patients/7/bookings?status=confirmed", 7)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.got.PatientID)
	assert.Equal(t, int64(7), svc.got.UserID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "confirmed", *svc.got.Status)

	var body []models.BookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body, 2)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		userID     int64
		err        error
		wantStatus int
	}{
		{name: "bad id", target: "/patients/x/bookings", userID: 7, wantStatus: http.StatusBadRequest},
		{name: "no user", target: "/patients/7/bookings", wantStatus: http.StatusUnauthorized},
		{name: "other patient", target: "/patients/7/bookings", userID: 8, err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "bad status", target: "/patients/7/bookings?status=archived", userID: 7, err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/patients/7/bookings", userID: 7, err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeService{err: tt.err}, tt.target, tt.userID)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
