package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	providerClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	userClient "github.com/m04kA/AppointmentService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования (одиночного или серии)
type UseCase struct {
	bookingRepo    BookingRepository
	checker        ConflictChecker
	expander       RecurrenceExpander
	settings       SettingsProvider
	providerClient ProviderServiceClient
	userClient     UserServiceClient
	txManager      TransactionManager
	notifier       Notifier
	cache          AvailabilityCache
	timeProvider   TimeProvider
	leadTime       time.Duration
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// leadTime - минимальное время до визита, настройки провайдера могут только увеличить его
func NewUseCase(
	bookingRepo BookingRepository,
	checker ConflictChecker,
	expander RecurrenceExpander,
	settings SettingsProvider,
	providerClient ProviderServiceClient,
	userClient UserServiceClient,
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
		expander:       expander,
		settings:       settings,
		providerClient: providerClient,
		userClient:     userClient,
		txManager:      txManager,
		notifier:       notifier,
		cache:          cache,
		timeProvider:   timeProvider,
		leadTime:       leadTime,
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Серия создаётся целиком или не создаётся: вхождения проверяются по возрастанию
// даты в одной сериализуемой транзакции, первый конфликт отменяет всю операцию
// и возвращается как *SlotConflictError с датой вхождения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: patient=%d, provider=%d, member=%v, service=%v, at=%s, recurrence=%s",
		req.PatientID, req.ProviderID, req.FamilyMemberID, req.ServiceID,
		req.ScheduledAt.Format(time.RFC3339), req.Recurrence)

	// 1. Валидация входных данных
	in, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Провайдер должен существовать и принимать записи
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.Status.IsBookable() {
		uc.logger.Warn("CreateBooking: provider id=%d is not bookable, status=%s", req.ProviderID, provider.Status)
		return nil, ErrProviderNotFound
	}

	// 3. Член семьи должен принадлежать пациенту
	if req.FamilyMemberID != nil {
		if _, err := uc.userClient.GetFamilyMember(ctx, req.PatientID, *req.FamilyMemberID); err != nil {
			if errors.Is(err, userClient.ErrFamilyMemberNotFound) {
				uc.logger.Warn("CreateBooking: family member id=%d not found for patient=%d", *req.FamilyMemberID, req.PatientID)
				return nil, ErrFamilyMemberNotFound
			}
			uc.logger.Error("CreateBooking: failed to get family member id=%d: %v", *req.FamilyMemberID, err)
			return nil, fmt.Errorf("%w: failed to get family member: %v", ErrInternal, err)
		}
	}

	// 4. Услуга задаёт длительность приёма
	serviceDuration := 0
	if req.ServiceID != nil {
		service, err := uc.providerClient.GetService(ctx, req.ProviderID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, providerClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found at provider=%d", *req.ServiceID, req.ProviderID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		serviceDuration = service.DurationMinutes
	}

	// 5. Lead time
	leadTime, err := uc.effectiveLeadTime(ctx, req)
	if err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	if req.ScheduledAt.Sub(now) < leadTime {
		uc.logger.Warn("CreateBooking: %s is closer than lead time %s", req.ScheduledAt.Format(time.RFC3339), leadTime)
		return nil, fmt.Errorf("%w: must book at least %s in advance", ErrLeadTimeViolation, leadTime)
	}

	// 6. Разворачиваем серию
	var (
		seriesID *string
		endDate  *time.Time
	)
	occurrences := []time.Time{req.ScheduledAt}
	if in.recurrence.IsRecurring() {
		end := uc.expander.DefaultEndDate(req.ScheduledAt)
		if req.RecurrenceEndDate != nil {
			end = *req.RecurrenceEndDate
		}
		endDate = &end
		occurrences = uc.expander.Expand(in.recurrence, req.ScheduledAt, end)
		id := uc.expander.NewSeriesID()
		seriesID = &id
	}

	window := uc.checker.Window(in.kind, serviceDuration)
	duration := int(window / time.Minute)

	// 7. Проверка конфликтов и вставка в одной сериализуемой транзакции
	ids := make([]int64, 0, len(occurrences))
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, at := range occurrences {
			conflict, err := uc.checker.HasConflict(txCtx, req.ProviderID, at, window, nil)
			if err != nil {
				uc.logger.Error("CreateBooking: conflict check failed for %s: %v", at.Format(time.RFC3339), err)
				return fmt.Errorf("%w: conflict check: %v", ErrInternal, err)
			}
			if conflict {
				uc.logger.Warn("CreateBooking: provider=%d is busy at %s", req.ProviderID, at.Format(time.RFC3339))
				return &SlotConflictError{Date: at}
			}
		}

		for _, at := range occurrences {
			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				PatientID:         req.PatientID,
				ProviderID:        req.ProviderID,
				FamilyMemberID:    req.FamilyMemberID,
				ServiceID:         req.ServiceID,
				Kind:              in.kind,
				ScheduledAt:       at,
				DurationMinutes:   duration,
				Status:            domain.StatusPending,
				SeriesID:          seriesID,
				Recurrence:        in.recurrence,
				RecurrenceEndDate: endDate,
				Notes:             req.Notes,
			})
			if err != nil {
				if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
					uc.logger.Warn("CreateBooking: storage rejected overlapping booking at %s", at.Format(time.RFC3339))
					return &SlotConflictError{Date: at}
				}
				uc.logger.Error("CreateBooking: failed to create booking at %s: %v", at.Format(time.RFC3339), err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}
			ids = append(ids, created.ID)
		}

		return nil
	})
	if err != nil {
		var conflictErr *SlotConflictError
		if errors.As(err, &conflictErr) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	// 8. Сбрасываем кеш доступности и уведомляем провайдера
	if err := uc.cache.Invalidate(ctx, req.ProviderID); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability of provider=%d: %v", req.ProviderID, err)
	}
	uc.notifier.Notify(notificationservice.Notification{
		Event:       notificationservice.EventBookingCreated,
		ProviderID:  req.ProviderID,
		PatientID:   req.PatientID,
		BookingIDs:  ids,
		SeriesID:    seriesID,
		ScheduledAt: req.ScheduledAt,
		Status:      string(domain.StatusPending),
	})

	uc.logger.Info("CreateBooking: created %d bookings for provider=%d, series=%v", len(ids), req.ProviderID, seriesID)

	return &Response{
		BookingIDs:      ids,
		SeriesID:        seriesID,
		Occurrences:     occurrences,
		Status:          string(domain.StatusPending),
		DurationMinutes: duration,
	}, nil
}

func (uc *UseCase) effectiveLeadTime(ctx context.Context, req *Request) (time.Duration, error) {
	settings, err := uc.settings.GetEffective(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get settings for provider=%d: %v", req.ProviderID, err)
		return 0, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	if settings.LeadTime() > uc.leadTime {
		return settings.LeadTime(), nil
	}
	return uc.leadTime, nil
}

type validated struct {
	kind       domain.BookingKind
	recurrence domain.RecurrencePattern
}

func validateRequest(req *Request) (validated, error) {
	var v validated

	if req.PatientID <= 0 {
		return v, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return v, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return v, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.FamilyMemberID != nil && *req.FamilyMemberID <= 0 {
		return v, fmt.Errorf("%w: familyMemberID must be positive", ErrInvalidInput)
	}
	if req.ScheduledAt.IsZero() {
		return v, fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return v, fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	switch domain.BookingKind(req.Kind) {
	case domain.KindTour, domain.KindAppointment:
		v.kind = domain.BookingKind(req.Kind)
	case "":
		v.kind = domain.KindTour
		if req.ServiceID != nil {
			v.kind = domain.KindAppointment
		}
	default:
		return v, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, req.Kind)
	}

	recurrence, ok := domain.ParseRecurrencePattern(req.Recurrence)
	if !ok {
		return v, fmt.Errorf("%w: unknown recurrence %q", ErrInvalidInput, req.Recurrence)
	}
	v.recurrence = recurrence

	if recurrence.IsRecurring() && req.RecurrenceEndDate != nil {
		end := *req.RecurrenceEndDate
		if end.Sub(req.ScheduledAt) > time.Duration(domain.MaxRecurrenceHorizonDays)*24*time.Hour {
			return v, fmt.Errorf("%w: recurrence may span at most %d days", ErrInvalidInput, domain.MaxRecurrenceHorizonDays)
		}
	}

	return v, nil
}
