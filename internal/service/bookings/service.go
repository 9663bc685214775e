package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	providerClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	"github.com/m04kA/AppointmentService/internal/service/bookings/models"
)

// статусы, которые менеджер может выставить вручную
// отмена идёт через Cancel, возврат в pending только через перенос
var managerStatuses = map[domain.BookingStatus]bool{
	domain.StatusConfirmed: true,
	domain.StatusCompleted: true,
	domain.StatusNoShow:    true,
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo        BookingRepository
	providerClient     ProviderServiceClient
	txManager          TransactionManager
	notifier           Notifier
	cache              AvailabilityCache
	timeProvider       TimeProvider
	cancellationWindow time.Duration
	logger             Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	providerClient ProviderServiceClient,
	txManager TransactionManager,
	notifier Notifier,
	cache AvailabilityCache,
	timeProvider TimeProvider,
	cancellationWindow time.Duration,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:        bookingRepo,
		providerClient:     providerClient,
		txManager:          txManager,
		notifier:           notifier,
		cache:              cache,
		timeProvider:       timeProvider,
		cancellationWindow: cancellationWindow,
		logger:             logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
// или бронирование провайдера, менеджером которого он является
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetPatientBookings получает бронирования пациента
// Опционально фильтрует по статусу
func (s *Service) GetPatientBookings(ctx context.Context, req *models.GetPatientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPatientBookings: fetching bookings for patient=%d, status=%v", req.PatientID, req.Status)

	if req.UserID != req.PatientID {
		s.logger.Warn("GetPatientBookings: user=%d cannot read bookings of patient=%d", req.UserID, req.PatientID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientBookings: invalid status=%s for patient=%d", *req.Status, req.PatientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByPatientID(ctx, req.PatientID, domainStatus)
	if err != nil {
		s.logger.Error("GetPatientBookings: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: GetPatientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientBookings: fetched %d bookings for patient=%d", len(bookings), req.PatientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования провайдера с фильтрацией
// Доступно только менеджерам провайдера
//
// Примеры использования:
// - Все активные бронирования: {ProviderID: 3, UserID: 100}
// - Бронирования за период: указать From и To
// - Только подтверждённые: Status = "confirmed"
// - Включая отменённые и завершённые: IncludeInactive = true
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%d, user=%d", req.ProviderID, req.UserID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkManagerAccess(ctx, req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: fetched %d bookings for provider=%d", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить может пациент-владелец или менеджер провайдера.
// До визита должно оставаться не меньше окна отмены (24 часа).
// Проверка и запись идут в одной транзакции, строка читается с блокировкой.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if err := validateReason(req.CancellationReason); err != nil {
		return nil, err
	}

	var (
		booking *domain.Booking
		now     time.Time
	)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		now = s.timeProvider.Now()
		if booking.ScheduledAt.Sub(now) < s.cancellationWindow {
			s.logger.Warn("Cancel: booking id=%d at %s is inside cancellation window", bookingID, booking.ScheduledAt.Format(time.RFC3339))
			return fmt.Errorf("%w: must cancel at least %s before the visit", ErrCancellationWindow, s.cancellationWindow)
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason, now); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				s.logger.Warn("Cancel: booking id=%d changed status concurrently", bookingID)
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.StatusCancelled
	booking.CancelledAt = &now
	booking.CancellationReason = req.CancellationReason

	s.afterChange(ctx, notificationservice.EventBookingCancelled, booking.ProviderID, booking.PatientID, []int64{booking.ID}, booking.SeriesID, booking.ScheduledAt)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// CancelSeries отменяет все будущие активные вхождения серии
//
// Правило окна отмены проверяется для каждого будущего вхождения: если хотя бы
// одно ближе окна, не отменяется ничего. Прошедшие вхождения не трогаются.
// Все отмены выполняются в одной транзакции.
func (s *Service) CancelSeries(ctx context.Context, seriesID string, req *models.CancelSeriesRequest) (*models.CancelSeriesResponse, error) {
	s.logger.Info("CancelSeries: cancelling series=%s by user=%d", seriesID, req.UserID)

	if err := validateReason(req.CancellationReason); err != nil {
		return nil, err
	}

	var (
		cancelledIDs []int64
		first        *domain.Booking
	)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		series, err := s.bookingRepo.GetBySeriesID(ctx, seriesID)
		if err != nil {
			s.logger.Error("CancelSeries: repository error for series=%s: %v", seriesID, err)
			return fmt.Errorf("%w: CancelSeries - repository error: %v", ErrInternal, err)
		}
		if len(series) == 0 {
			return ErrSeriesNotFound
		}
		first = series[0]

		if err := s.checkUserAccess(ctx, first, req.UserID); err != nil {
			s.logger.Warn("CancelSeries: access denied for user=%d to series=%s", req.UserID, seriesID)
			return err
		}

		now := s.timeProvider.Now()
		ids := make([]int64, 0, len(series))
		for _, occurrence := range series {
			if !occurrence.IsActive() || !occurrence.ScheduledAt.After(now) {
				continue
			}
			if occurrence.ScheduledAt.Sub(now) < s.cancellationWindow {
				s.logger.Warn("CancelSeries: occurrence id=%d at %s is inside cancellation window",
					occurrence.ID, occurrence.ScheduledAt.Format(time.RFC3339))
				return fmt.Errorf("%w: occurrence on %s", ErrCancellationWindow, occurrence.ScheduledAt.Format(domain.DateFormat))
			}
			ids = append(ids, occurrence.ID)
		}

		if _, err := s.bookingRepo.CancelMany(ctx, ids, req.CancellationReason, now); err != nil {
			s.logger.Error("CancelSeries: repository error for series=%s: %v", seriesID, err)
			return fmt.Errorf("%w: CancelSeries - repository error: %v", ErrInternal, err)
		}

		cancelledIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(cancelledIDs) > 0 {
		s.afterChange(ctx, notificationservice.EventBookingCancelled, first.ProviderID, first.PatientID, cancelledIDs, first.SeriesID, first.ScheduledAt)
	}

	s.logger.Info("CancelSeries: cancelled %d occurrences of series=%s", len(cancelledIDs), seriesID)
	return &models.CancelSeriesResponse{SeriesID: seriesID, CancelledIDs: cancelledIDs}, nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только менеджерам провайдера, переход проверяется по таблице переходов
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d", bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var booking *domain.Booking

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.getBooking(ctx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkManagerAccess(ctx, booking.ProviderID, req.UserID); err != nil {
			return err
		}

		if !managerStatuses[newStatus] || !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s rejected for booking id=%d", booking.Status, newStatus, bookingID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) {
				s.logger.Warn("UpdateStatus: booking id=%d left status %s concurrently", bookingID, booking.Status)
				return fmt.Errorf("%w: status of booking changed from %s", ErrInvalidTransition, booking.Status)
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = newStatus

	s.afterChange(ctx, notificationservice.EventBookingStatus, booking.ProviderID, booking.PatientID, []int64{booking.ID}, booking.SeriesID, booking.ScheduledAt)

	s.logger.Info("UpdateStatus: booking id=%d is now %s", bookingID, newStatus)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess пациент-владелец или менеджер провайдера
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.PatientID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, booking.ProviderID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером провайдера
func (s *Service) checkManagerAccess(ctx context.Context, providerID int64, userID int64) error {
	provider, err := s.providerClient.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			s.logger.Warn("checkManagerAccess: provider id=%d not found", providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get provider id=%d: %v", providerID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get provider: %v", ErrInternal, err)
	}

	if !provider.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of provider=%d", userID, providerID)
		return ErrAccessDenied
	}

	return nil
}

// afterChange сбрасывает кеш доступности и уведомляет провайдера
// Ошибки не влияют на результат операции
func (s *Service) afterChange(
	ctx context.Context,
	event notificationservice.Event,
	providerID, patientID int64,
	ids []int64,
	seriesID *string,
	at time.Time,
) {
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		s.logger.Warn("afterChange: failed to invalidate availability of provider=%d: %v", providerID, err)
	}

	s.notifier.Notify(notificationservice.Notification{
		Event:       event,
		ProviderID:  providerID,
		PatientID:   patientID,
		BookingIDs:  ids,
		SeriesID:    seriesID,
		ScheduledAt: at,
	})
}

func validateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellationReason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
