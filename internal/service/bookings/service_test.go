package bookings

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	"github.com/m04kA/AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/AppointmentService/pkg/logger"
	"github.com/m04kA/AppointmentService/pkg/ptr"
)

const (
	patientID  = int64(7)
	providerID = int64(3)
	managerID  = int64(100)
	strangerID = int64(55)
)

type fakeRepo struct {
	bookings map[int64]*domain.Booking
	// beforeWrite вызывается между чтением и записью, имитирует конкурентное изменение
	beforeWrite     func()
	writesOutsideTx int
}

func (r *fakeRepo) prepareWrite(ctx context.Context) {
	if ctx.Value(txMarker{}) == nil {
		r.writesOutsideTx++
	}
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
}

func newFakeRepo(bookings ...*domain.Booking) *fakeRepo {
	r := &fakeRepo{bookings: map[int64]*domain.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) GetBySeriesID(_ context.Context, seriesID string) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.SeriesID != nil && *b.SeriesID == seriesID {
			copied := *b
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })
	return result, nil
}

func (r *fakeRepo) GetByPatientID(_ context.Context, id int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.PatientID == id && (status == nil || b.Status == *status) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetByProviderWithFilter(_ context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range r.bookings {
		if b.ProviderID == filter.ProviderID && (filter.IncludeInactive || b.IsActive()) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	r.prepareWrite(ctx)
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return bookingRepo.ErrStatusChanged
	}
	b.Status = to
	return nil
}

func (r *fakeRepo) Cancel(ctx context.Context, id int64, reason *string, at time.Time) error {
	r.prepareWrite(ctx)
	b, ok := r.bookings[id]
	if !ok || !b.IsActive() {
		return bookingRepo.ErrStatusChanged
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &at
	return nil
}

func (r *fakeRepo) CancelMany(ctx context.Context, ids []int64, reason *string, at time.Time) (int64, error) {
	for _, id := range ids {
		if err := r.Cancel(ctx, id, reason, at); err != nil {
			return 0, err
		}
	}
	return int64(len(ids)), nil
}

type fakeProviders struct{}

func (fakeProviders) GetProvider(_ context.Context, id int64) (*providerservice.Provider, error) {
	if id != providerID {
		return nil, providerservice.ErrProviderNotFound
	}
	return &providerservice.Provider{ID: id, Status: domain.ProviderActive, ManagerIDs: []int64{managerID}}, nil
}

type txMarker struct{}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, txMarker{}, true))
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notificationservice.Notification
}

func (n *fakeNotifier) Notify(msg notificationservice.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

type fakeCache struct {
	invalidated []int64
}

func (c *fakeCache) Invalidate(_ context.Context, id int64) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var now = time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	repo     *fakeRepo
	notifier *fakeNotifier
	cache    *fakeCache
}

func newFixture(bookings ...*domain.Booking) *fixture {
	f := &fixture{
		repo:     newFakeRepo(bookings...),
		notifier: &fakeNotifier{},
		cache:    &fakeCache{},
	}
	f.svc = NewService(f.repo, fakeProviders{}, fakeTx{}, f.notifier, f.cache, fixedClock{now: now}, 24*time.Hour, logger.Nop())
	return f
}

func booking(id int64, at time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		PatientID:       patientID,
		ProviderID:      providerID,
		Kind:            domain.KindAppointment,
		ScheduledAt:     at,
		DurationMinutes: 30,
		Status:          status,
		Recurrence:      domain.RecurrenceNone,
	}
}

func TestService_Cancel_Window(t *testing.T) {
	t.Run("23 hours ahead is rejected", func(t *testing.T) {
		f := newFixture(booking(1, now.Add(23*time.Hour), domain.StatusConfirmed))

		_, err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: patientID})

		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[1].Status)
		assert.Nil(t, f.repo.bookings[1].CancelledAt)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("25 hours ahead is cancelled", func(t *testing.T) {
		f := newFixture(booking(1, now.Add(25*time.Hour), domain.StatusConfirmed))

		resp, err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
			UserID:             patientID,
			CancellationReason: ptr.Ptr("feeling better"),
		})

		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		require.NotNil(t, f.repo.bookings[1].CancelledAt)
		assert.Equal(t, now, *f.repo.bookings[1].CancelledAt)
		assert.Equal(t, "feeling better", *f.repo.bookings[1].CancellationReason)
		assert.Equal(t, []int64{providerID}, f.cache.invalidated)
		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, notificationservice.EventBookingCancelled, f.notifier.sent[0].Event)
	})
}

func TestService_Cancel_Access(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		status  domain.BookingStatus
		wantErr error
	}{
		{name: "manager may cancel", userID: managerID, status: domain.StatusPending},
		{name: "stranger is denied", userID: strangerID, status: domain.StatusPending, wantErr: ErrAccessDenied},
		{name: "completed cannot be cancelled", userID: patientID, status: domain.StatusCompleted, wantErr: ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booking(1, now.Add(72*time.Hour), tt.status))

			_, err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: tt.userID})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Cancel_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{UserID: patientID})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_Cancel_StatusChangedConcurrently(t *testing.T) {
	f := newFixture(booking(1, now.Add(72*time.Hour), domain.StatusConfirmed))
	// менеджер завершил визит между чтением и записью
	f.repo.beforeWrite = func() { f.repo.bookings[1].Status = domain.StatusCompleted }

	_, err := f.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: patientID})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, domain.StatusCompleted, f.repo.bookings[1].Status)
	assert.Nil(t, f.repo.bookings[1].CancelledAt)
	assert.Zero(t, f.repo.writesOutsideTx)
	assert.Empty(t, f.notifier.sent)
}

func TestService_UpdateStatus_StatusChangedConcurrently(t *testing.T) {
	f := newFixture(booking(1, now.Add(72*time.Hour), domain.StatusConfirmed))
	// пациент отменил визит между чтением и записью
	f.repo.beforeWrite = func() { f.repo.bookings[1].Status = domain.StatusCancelled }

	_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: managerID, Status: "completed"})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCancelled, f.repo.bookings[1].Status)
	assert.Zero(t, f.repo.writesOutsideTx)
	assert.Empty(t, f.notifier.sent)
}

func seriesBooking(id int64, at time.Time, status domain.BookingStatus) *domain.Booking {
	b := booking(id, at, status)
	b.SeriesID = ptr.Ptr("series-1")
	b.Recurrence = domain.RecurrenceWeekly
	return b
}

func TestService_CancelSeries(t *testing.T) {
	t.Run("future occurrences cancelled, past untouched", func(t *testing.T) {
		f := newFixture(
			seriesBooking(1, now.AddDate(0, 0, -7), domain.StatusCompleted),
			seriesBooking(2, now.AddDate(0, 0, 2), domain.StatusConfirmed),
			seriesBooking(3, now.AddDate(0, 0, 9), domain.StatusPending),
		)

		resp, err := f.svc.CancelSeries(context.Background(), "series-1", &models.CancelSeriesRequest{UserID: patientID})

		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3}, resp.CancelledIDs)
		assert.Equal(t, domain.StatusCompleted, f.repo.bookings[1].Status)
		assert.Equal(t, domain.StatusCancelled, f.repo.bookings[2].Status)
		assert.Equal(t, domain.StatusCancelled, f.repo.bookings[3].Status)
	})

	t.Run("one occurrence inside window rejects whole series", func(t *testing.T) {
		f := newFixture(
			seriesBooking(1, now.Add(10*time.Hour), domain.StatusConfirmed),
			seriesBooking(2, now.AddDate(0, 0, 7), domain.StatusConfirmed),
		)

		_, err := f.svc.CancelSeries(context.Background(), "series-1", &models.CancelSeriesRequest{UserID: patientID})

		assert.ErrorIs(t, err, ErrCancellationWindow)
		assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[1].Status)
		assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[2].Status)
	})

	t.Run("unknown series", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.CancelSeries(context.Background(), "missing", &models.CancelSeriesRequest{UserID: patientID})
		assert.ErrorIs(t, err, ErrSeriesNotFound)
	})

	t.Run("stranger denied", func(t *testing.T) {
		f := newFixture(seriesBooking(1, now.AddDate(0, 0, 3), domain.StatusPending))

		_, err := f.svc.CancelSeries(context.Background(), "series-1", &models.CancelSeriesRequest{UserID: strangerID})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		userID  int64
		wantErr error
	}{
		{name: "confirm pending", from: domain.StatusPending, to: "confirmed", userID: managerID},
		{name: "complete confirmed", from: domain.StatusConfirmed, to: "completed", userID: managerID},
		{name: "no show pending", from: domain.StatusPending, to: "no_show", userID: managerID},
		{name: "complete pending", from: domain.StatusPending, to: "completed", userID: managerID, wantErr: ErrInvalidTransition},
		{name: "back to pending", from: domain.StatusConfirmed, to: "pending", userID: managerID, wantErr: ErrInvalidTransition},
		{name: "cancel through status", from: domain.StatusConfirmed, to: "cancelled", userID: managerID, wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "archived", userID: managerID, wantErr: ErrInvalidInput},
		{name: "patient cannot confirm", from: domain.StatusPending, to: "confirmed", userID: patientID, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(booking(1, now.Add(48*time.Hour), tt.from))

			_, err := f.svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: tt.userID, Status: tt.to})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.repo.bookings[1].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.BookingStatus(tt.to), f.repo.bookings[1].Status)
		})
	}
}

func TestService_GetByID_Access(t *testing.T) {
	f := newFixture(booking(1, now.Add(48*time.Hour), domain.StatusPending))

	resp, err := f.svc.GetByID(context.Background(), 1, patientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = f.svc.GetByID(context.Background(), 1, managerID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetPatientBookings(t *testing.T) {
	f := newFixture(
		booking(1, now.Add(48*time.Hour), domain.StatusPending),
		booking(2, now.Add(72*time.Hour), domain.StatusCancelled),
	)

	resp, err := f.svc.GetPatientBookings(context.Background(), &models.GetPatientBookingsRequest{
		UserID:    patientID,
		PatientID: patientID,
		Status:    ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = f.svc.GetPatientBookings(context.Background(), &models.GetPatientBookingsRequest{UserID: strangerID, PatientID: patientID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetProviderBookings(t *testing.T) {
	f := newFixture(
		booking(1, now.Add(48*time.Hour), domain.StatusPending),
		booking(2, now.Add(72*time.Hour), domain.StatusCancelled),
	)

	resp, err := f.svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		UserID:     managerID,
		ProviderID: providerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = f.svc.GetProviderBookings(context.Background(), &models.GetProviderBookingsRequest{
		UserID:     patientID,
		ProviderID: providerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
