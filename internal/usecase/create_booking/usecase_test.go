package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	"github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	"github.com/m04kA/AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/AppointmentService/internal/service/conflicts"
	"github.com/m04kA/AppointmentService/internal/service/recurrence"
	"github.com/m04kA/AppointmentService/pkg/logger"
	"github.com/m04kA/AppointmentService/pkg/ptr"
)

const (
	patientID  = int64(7)
	providerID = int64(3)
	serviceID  = int64(9)
	memberID   = int64(70)
)

// fakeStore хранилище в памяти: HasConflict для checker и Create для use case
type fakeStore struct {
	bookings  []*domain.Booking
	nextID    int64
	createErr error
}

func newFakeStore(existing ...*domain.Booking) *fakeStore {
	s := &fakeStore{nextID: 100}
	s.bookings = append(s.bookings, existing...)
	return s
}

func (s *fakeStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	b.ID = s.nextID
	s.bookings = append(s.bookings, b)
	return b, nil
}

func (s *fakeStore) HasConflict(_ context.Context, pid int64, from, to time.Time, excludeID *int64) (bool, error) {
	for _, b := range s.bookings {
		if b.ProviderID != pid || !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.ScheduledAt.After(from) && b.ScheduledAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

// fakeTx откатывает созданные строки, если fn вернула ошибку
type fakeTx struct {
	store *fakeStore
	calls int
}

func (tx *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	snapshot := len(tx.store.bookings)
	if err := fn(ctx); err != nil {
		tx.store.bookings = tx.store.bookings[:snapshot]
		return err
	}
	return nil
}

type fakeProviders struct {
	status domain.ProviderStatus
	err    error
}

func (f fakeProviders) GetProvider(_ context.Context, id int64) (*providerservice.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == "" {
		status = domain.ProviderApproved
	}
	return &providerservice.Provider{ID: id, Status: status}, nil
}

func (f fakeProviders) GetService(_ context.Context, pid, sid int64) (*providerservice.Service, error) {
	if sid != serviceID {
		return nil, providerservice.ErrServiceNotFound
	}
	return &providerservice.Service{ID: sid, ProviderID: pid, DurationMinutes: 60}, nil
}

type fakeUsers struct{}

func (fakeUsers) GetFamilyMember(_ context.Context, pid, mid int64) (*userservice.FamilyMember, error) {
	if pid != patientID || mid != memberID {
		return nil, userservice.ErrFamilyMemberNotFound
	}
	return &userservice.FamilyMember{ID: mid, UserID: pid}, nil
}

type fakeSettings struct{ noticeMinutes int }

func (f fakeSettings) GetEffective(_ context.Context, pid int64, _ *int64) (*domain.ProviderBookingSettings, error) {
	s := domain.DefaultBookingSettings(pid)
	if f.noticeMinutes > 0 {
		s.MinBookingNoticeMinutes = f.noticeMinutes
	}
	return s, nil
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

type fakeCache struct{ invalidated []int64 }

func (c *fakeCache) Invalidate(_ context.Context, id int64) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// понедельник 2026-11-02 12:00 UTC
var now = time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc       *UseCase
	store    *fakeStore
	tx       *fakeTx
	notifier *fakeNotifier
	cache    *fakeCache
}

func newFixture(providers fakeProviders, settings fakeSettings, existing ...*domain.Booking) *fixture {
	store := newFakeStore(existing...)
	f := &fixture{
		store:    store,
		tx:       &fakeTx{store: store},
		notifier: &fakeNotifier{},
		cache:    &fakeCache{},
	}
	f.uc = NewUseCase(
		store,
		conflicts.NewChecker(store, 30*time.Minute),
		recurrence.NewExpander(90, 104),
		settings,
		providers,
		fakeUsers{},
		f.tx,
		f.notifier,
		f.cache,
		fixedClock{now: now},
		24*time.Hour,
		logger.Nop(),
	)
	return f
}

func existing(id int64, at time.Time) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		PatientID:       99,
		ProviderID:      providerID,
		Kind:            domain.KindAppointment,
		ScheduledAt:     at,
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func TestUseCase_Execute_Single(t *testing.T) {
	f := newFixture(fakeProviders{}, fakeSettings{})
	at := now.Add(48 * time.Hour)

	resp, err := f.uc.Execute(context.Background(), &Request{
		PatientID:      patientID,
		ProviderID:     providerID,
		FamilyMemberID: ptr.Ptr(memberID),
		ServiceID:      ptr.Ptr(serviceID),
		ScheduledAt:    at,
		Notes:          ptr.Ptr("first visit"),
	})
	require.NoError(t, err)

	require.Len(t, resp.BookingIDs, 1)
	assert.Nil(t, resp.SeriesID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)

	require.Len(t, f.store.bookings, 1)
	created := f.store.bookings[0]
	assert.Equal(t, domain.KindAppointment, created.Kind)
	assert.Equal(t, domain.RecurrenceNone, created.Recurrence)
	assert.Equal(t, at, created.ScheduledAt)
	assert.Equal(t, memberID, *created.FamilyMemberID)

	assert.Equal(t, []int64{providerID}, f.cache.invalidated)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notificationservice.EventBookingCreated, f.notifier.sent[0].Event)
}

func TestUseCase_Execute_WeeklySeries(t *testing.T) {
	f := newFixture(fakeProviders{}, fakeSettings{})
	start := now.Add(48 * time.Hour)
	end := start.AddDate(0, 0, 14)

	resp, err := f.uc.Execute(context.Background(), &Request{
		PatientID:         patientID,
		ProviderID:        providerID,
		Kind:              "tour",
		ScheduledAt:       start,
		Recurrence:        "weekly",
		RecurrenceEndDate: &end,
	})
	require.NoError(t, err)

	require.Len(t, resp.BookingIDs, 3)
	require.NotNil(t, resp.SeriesID)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, []time.Time{start, start.AddDate(0, 0, 7), start.AddDate(0, 0, 14)}, resp.Occurrences)

	for _, b := range f.store.bookings {
		require.NotNil(t, b.SeriesID)
		assert.Equal(t, *resp.SeriesID, *b.SeriesID)
		assert.Equal(t, domain.RecurrenceWeekly, b.Recurrence)
		assert.Equal(t, domain.KindTour, b.Kind)
	}
	assert.Equal(t, 1, f.tx.calls)
}

func TestUseCase_Execute_DefaultSeriesEnd(t *testing.T) {
	f := newFixture(fakeProviders{}, fakeSettings{})

	resp, err := f.uc.Execute(context.Background(), &Request{
		PatientID:   patientID,
		ProviderID:  providerID,
		ScheduledAt: now.Add(48 * time.Hour),
		Recurrence:  "biweekly",
	})
	require.NoError(t, err)

	// 90 дней вперёд: 0, 14, ..., 84
	assert.Len(t, resp.BookingIDs, 7)
}

func TestUseCase_Execute_SeriesConflictRejectsAll(t *testing.T) {
	start := now.Add(48 * time.Hour)
	second := start.AddDate(0, 0, 7)
	f := newFixture(fakeProviders{}, fakeSettings{}, existing(1, second.Add(15*time.Minute)))

	end := start.AddDate(0, 0, 14)
	_, err := f.uc.Execute(context.Background(), &Request{
		PatientID:         patientID,
		ProviderID:        providerID,
		ServiceID:         ptr.Ptr(serviceID),
		ScheduledAt:       start,
		Recurrence:        "weekly",
		RecurrenceEndDate: &end,
	})

	require.ErrorIs(t, err, ErrSlotConflict)
	var conflictErr *SlotConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, second, conflictErr.Date)

	assert.Len(t, f.store.bookings, 1)
	assert.Empty(t, f.notifier.sent)
	assert.Empty(t, f.cache.invalidated)
}

func TestUseCase_Execute_StorageExclusionIsConflict(t *testing.T) {
	f := newFixture(fakeProviders{}, fakeSettings{})
	f.store.createErr = bookingRepo.ErrSlotNotAvailable
	at := now.Add(72 * time.Hour)

	_, err := f.uc.Execute(context.Background(), &Request{
		PatientID:   patientID,
		ProviderID:  providerID,
		ScheduledAt: at,
	})

	var conflictErr *SlotConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, at, conflictErr.Date)
}

func TestUseCase_Execute_AdjacentIsNotConflict(t *testing.T) {
	at := now.Add(48 * time.Hour)
	f := newFixture(fakeProviders{}, fakeSettings{}, existing(1, at.Add(-30*time.Minute)))

	_, err := f.uc.Execute(context.Background(), &Request{
		PatientID:   patientID,
		ProviderID:  providerID,
		Kind:        "tour",
		ScheduledAt: at,
	})
	assert.NoError(t, err)
}

func TestUseCase_Execute_Rejections(t *testing.T) {
	valid := func() *Request {
		return &Request{PatientID: patientID, ProviderID: providerID, ScheduledAt: now.Add(48 * time.Hour)}
	}

	tests := []struct {
		name      string
		providers fakeProviders
		settings  fakeSettings
		modify    func(r *Request)
		wantErr   error
	}{
		{name: "missing time", modify: func(r *Request) { r.ScheduledAt = time.Time{} }, wantErr: ErrInvalidInput},
		{name: "unknown kind", modify: func(r *Request) { r.Kind = "surgery" }, wantErr: ErrInvalidInput},
		{name: "unknown recurrence", modify: func(r *Request) { r.Recurrence = "daily" }, wantErr: ErrInvalidInput},
		{name: "series longer than a year", modify: func(r *Request) {
			r.Recurrence = "monthly"
			r.RecurrenceEndDate = ptr.Ptr(r.ScheduledAt.AddDate(2, 0, 0))
		}, wantErr: ErrInvalidInput},
		{name: "notes too long", modify: func(r *Request) { r.Notes = ptr.Ptr(string(make([]byte, 501))) }, wantErr: ErrInvalidInput},
		{name: "provider unknown", providers: fakeProviders{err: providerservice.ErrProviderNotFound}, modify: func(*Request) {}, wantErr: ErrProviderNotFound},
		{name: "provider pending approval", providers: fakeProviders{status: domain.ProviderStatus("pending")}, modify: func(*Request) {}, wantErr: ErrProviderNotFound},
		{name: "directory down", providers: fakeProviders{err: providerservice.ErrInternal}, modify: func(*Request) {}, wantErr: ErrInternal},
		{name: "foreign family member", modify: func(r *Request) { r.FamilyMemberID = ptr.Ptr(int64(71)) }, wantErr: ErrFamilyMemberNotFound},
		{name: "unknown service", modify: func(r *Request) { r.ServiceID = ptr.Ptr(int64(10)) }, wantErr: ErrServiceNotFound},
		{name: "23 hours ahead", modify: func(r *Request) { r.ScheduledAt = now.Add(23 * time.Hour) }, wantErr: ErrLeadTimeViolation},
		{name: "in the past", modify: func(r *Request) { r.ScheduledAt = now.Add(-time.Hour) }, wantErr: ErrLeadTimeViolation},
		{name: "provider notice longer than policy", settings: fakeSettings{noticeMinutes: 72 * 60}, modify: func(*Request) {}, wantErr: ErrLeadTimeViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.providers, tt.settings)
			req := valid()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.bookings)
			assert.Zero(t, f.tx.calls)
		})
	}
}
