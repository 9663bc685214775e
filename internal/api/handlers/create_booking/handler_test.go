package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func doRequest(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID > 0 {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	w := httptest.NewRecorder()
	h.Handle(w, r)
	return w
}

func TestHandler_Handle_CreatedSeries(t *testing.T) {
	first := time.Date(2026, 11, 10, 10, 0, 0, 0, time.UTC)
	seriesID := "3f1c2a7e-0000-4000-8000-000000000001"
	uc := &fakeUseCase{resp: &createBooking.Response{
		BookingIDs:      []int64{1, 2},
		SeriesID:        &seriesID,
		Occurrences:     []time.Time{first, first.AddDate(0, 0, 7)},
		Status:          "pending",
		DurationMinutes: 60,
	}}
	h := NewHandler(uc, logger.Nop())

	w := doRequest(h, `{
		"providerId": 3,
		"serviceId": 9,
		"scheduledAt": "2026-11-10T10:00:00Z",
		"recurrence": "weekly",
		"recurrenceEndDate": "2026-11-17"
	}`, 7)

	require.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.PatientID)
	assert.Equal(t, int64(3), uc.got.ProviderID)
	assert.Equal(t, "weekly", uc.got.Recurrence)
	assert.True(t, first.Equal(uc.got.ScheduledAt))
	require.NotNil(t, uc.got.RecurrenceEndDate)
	assert.Equal(t, time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC), *uc.got.RecurrenceEndDate)

	var body CreateBookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, []int64{1, 2}, body.BookingIDs)
	assert.Equal(t, seriesID, *body.SeriesID)
	assert.Equal(t, []string{"2026-11-10T10:00:00Z", "2026-11-17T10:00:00Z"}, body.Occurrences)
}

func TestHandler_Handle_ConflictReportsDate(t *testing.T) {
	conflictAt := time.Date(2026, 11, 17, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{err: &createBooking.SlotConflictError{Date: conflictAt}}
	h := NewHandler(uc, logger.Nop())

	w := doRequest(h, `{"providerId": 3, "scheduledAt": "2026-11-10T10:00:00Z", "recurrence": "weekly"}`, 7)

	require.Equal(t, http.StatusConflict, w.Code)
	var body ConflictResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "2026-11-17T10:00:00Z", body.Date)
}

func TestHandler_Handle_Errors(t *testing.T) {
	validBody := `{"providerId": 3, "scheduledAt": "2026-11-10T10:00:00Z"}`

	tests := []struct {
		name       string
		body       string
		userID     int64
		ucErr      error
		wantStatus int
	}{
		{name: "no user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "malformed body", body: `{"providerId":`, userID: 7, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"providerId": 3, "carId": 1}`, userID: 7, wantStatus: http.StatusBadRequest},
		{name: "bad time", body: `{"providerId": 3, "scheduledAt": "2026-11-10 10:00"}`, userID: 7, wantStatus: http.StatusBadRequest},
		{name: "bad end date", body: `{"providerId": 3, "scheduledAt": "2026-11-10T10:00:00Z", "recurrenceEndDate": "17.11.2026"}`, userID: 7, wantStatus: http.StatusBadRequest},
		{name: "provider not found", body: validBody, userID: 7, ucErr: createBooking.ErrProviderNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", body: validBody, userID: 7, ucErr: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "family member not found", body: validBody, userID: 7, ucErr: createBooking.ErrFamilyMemberNotFound, wantStatus: http.StatusNotFound},
		{name: "lead time", body: validBody, userID: 7, ucErr: createBooking.ErrLeadTimeViolation, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid input", body: validBody, userID: 7, ucErr: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, userID: 7, ucErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.ucErr, resp: &createBooking.Response{}}
			w := doRequest(NewHandler(uc, logger.Nop()), tt.body, tt.userID)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
