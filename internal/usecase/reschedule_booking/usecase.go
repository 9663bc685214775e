package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	providerClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
)

// UseCase use case для переноса бронирования на другое время
type UseCase struct {
	bookingRepo    BookingRepository
	checker        ConflictChecker
	settings       SettingsProvider
	providerClient ProviderServiceClient
	txManager      TransactionManager
	notifier       Notifier
	cache          AvailabilityCache
	timeProvider   TimeProvider
	leadTime       time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	checker ConflictChecker,
	settings SettingsProvider,
	providerClient ProviderServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	cache AvailabilityCache,
	timeProvider TimeProvider,
	leadTime time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		checker:        checker,
		settings:       settings,
		providerClient: providerClient,
		txManager:      txManager,
		notifier:       notifier,
		cache:          cache,
		timeProvider:   timeProvider,
		leadTime:       leadTime,
		logger:         logger,
	}
}

// Execute переносит бронирование на месте: тот же ID, статус снова pending,
// в заметки добавляется строка с прежним временем.
// При любом отказе строка бронирования не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking id=%d to %s by user=%d",
		req.BookingID, req.ScheduledAt.Format(time.RFC3339), req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование, права и статус (вне транзакции: нужен внешний сервис)
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkAccess(ctx, booking, req.UserID); err != nil {
		return nil, err
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d cannot be rescheduled, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotReschedule
	}

	if booking.ScheduledAt.Equal(req.ScheduledAt) {
		return nil, fmt.Errorf("%w: new time equals current time", ErrInvalidInput)
	}

	// 3. Lead time для нового времени
	settings, err := uc.settings.GetEffective(ctx, booking.ProviderID, booking.ServiceID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get settings for provider=%d: %v", booking.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	leadTime := uc.leadTime
	if settings.LeadTime() > leadTime {
		leadTime = settings.LeadTime()
	}

	now := uc.timeProvider.Now()
	if req.ScheduledAt.Sub(now) < leadTime {
		uc.logger.Warn("RescheduleBooking: %s is closer than lead time %s", req.ScheduledAt.Format(time.RFC3339), leadTime)
		return nil, fmt.Errorf("%w: must book at least %s in advance", ErrLeadTimeViolation, leadTime)
	}

	// 4. Проверка конфликта и обновление в одной транзакции
	previous := booking.ScheduledAt
	notes := appendProvenance(booking.Notes, previous)
	window := uc.checker.Window(booking.Kind, booking.DurationMinutes)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// перечитываем под блокировкой
		locked, err := uc.getBooking(txCtx, booking.ID)
		if err != nil {
			return err
		}
		if !locked.CanBeRescheduled() || !locked.ScheduledAt.Equal(previous) {
			uc.logger.Warn("RescheduleBooking: booking id=%d changed concurrently", booking.ID)
			return ErrCannotReschedule
		}

		conflict, err := uc.checker.HasConflict(txCtx, booking.ProviderID, req.ScheduledAt, window, &booking.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
		}
		if conflict {
			uc.logger.Warn("RescheduleBooking: provider=%d is busy at %s", booking.ProviderID, req.ScheduledAt.Format(time.RFC3339))
			return fmt.Errorf("%w: provider is busy at %s", ErrSlotConflict, req.ScheduledAt.Format(time.RFC3339))
		}

		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, req.ScheduledAt, domain.StatusPending, notes); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return fmt.Errorf("%w: provider is busy at %s", ErrSlotConflict, req.ScheduledAt.Format(time.RFC3339))
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("RescheduleBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	// 5. Кеш и уведомление
	if err := uc.cache.Invalidate(ctx, booking.ProviderID); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate availability of provider=%d: %v", booking.ProviderID, err)
	}
	uc.notifier.Notify(notificationservice.Notification{
		Event:       notificationservice.EventBookingRescheduled,
		ProviderID:  booking.ProviderID,
		PatientID:   booking.PatientID,
		BookingIDs:  []int64{booking.ID},
		SeriesID:    booking.SeriesID,
		ScheduledAt: req.ScheduledAt,
		Status:      string(domain.StatusPending),
	})

	uc.logger.Info("RescheduleBooking: booking id=%d moved from %s to %s",
		booking.ID, previous.Format(time.RFC3339), req.ScheduledAt.Format(time.RFC3339))

	return &Response{
		ID:                  booking.ID,
		ProviderID:          booking.ProviderID,
		ScheduledAt:         req.ScheduledAt,
		PreviousScheduledAt: previous,
		DurationMinutes:     booking.DurationMinutes,
		Status:              string(domain.StatusPending),
		Notes:               notes,
	}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess пациент-владелец или менеджер провайдера
func (uc *UseCase) checkAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.PatientID == userID {
		return nil
	}

	provider, err := uc.providerClient.GetProvider(ctx, booking.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			return ErrAccessDenied
		}
		uc.logger.Error("RescheduleBooking: failed to get provider id=%d: %v", booking.ProviderID, err)
		return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsManager(userID) {
		uc.logger.Warn("RescheduleBooking: access denied for user=%d to booking id=%d", userID, booking.ID)
		return ErrAccessDenied
	}
	return nil
}

// appendProvenance добавляет в заметки строку с прежним временем
func appendProvenance(notes *string, previous time.Time) *string {
	line := "Rescheduled from " + previous.Format(time.RFC3339)
	if notes == nil || *notes == "" {
		return &line
	}
	result := *notes + "\n" + line
	return &result
}

func isBusinessError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrCannotReschedule) ||
		errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrInternal)
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}
	return nil
}
