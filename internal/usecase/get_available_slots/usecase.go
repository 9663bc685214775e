package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/internal/infra/cache/slots"
	providerClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
)

// UseCase use case для получения доступных слотов провайдера
type UseCase struct {
	bookingRepo    BookingRepository
	settings       SettingsProvider
	providerClient ProviderServiceClient
	cache          AvailabilityCache
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	settings SettingsProvider,
	providerClient ProviderServiceClient,
	cache AvailabilityCache,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		settings:       settings,
		providerClient: providerClient,
		cache:          cache,
		timeProvider:   timeProvider,
		location:       location,
		logger:         logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, provider=%d, service=%v, days=%v",
		req.UserID, req.ProviderID, req.ServiceID, req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Провайдер должен существовать и принимать записи
	provider, err := uc.providerClient.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.Status.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: provider id=%d is not bookable, status=%s", req.ProviderID, provider.Status)
		return nil, ErrProviderNotFound
	}

	profile, err := provider.Profile()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: provider id=%d has invalid operating profile: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Услуга (если указана)
	if req.ServiceID != nil {
		if _, err := uc.providerClient.GetService(ctx, req.ProviderID, *req.ServiceID); err != nil {
			if errors.Is(err, providerClient.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found at provider=%d", *req.ServiceID, req.ProviderID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 4. Настройки с учетом иерархии
	settings, err := uc.settings.GetEffective(ctx, req.ProviderID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	params := Params{
		DaysAhead:   settings.AdvanceBookingDays,
		SlotMinutes: settings.SlotDurationMinutes,
		LeadTime:    settings.LeadTime(),
		Location:    uc.location,
	}
	if req.Days != nil {
		params.DaysAhead = *req.Days
	}

	now := uc.timeProvider.Now()
	today := startOfDay(now, uc.location)
	key := slots.Key{
		ProviderID:  req.ProviderID,
		ServiceID:   req.ServiceID,
		DaysAhead:   params.DaysAhead,
		SlotMinutes: params.SlotMinutes,
		Today:       today,
	}

	// 5. Кеш
	// результат пишется только под версией, прочитанной здесь
	cached, version, found, err := uc.cache.Get(ctx, key)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed for provider=%d: %v", req.ProviderID, err)
	} else if found {
		applyLeadTime(cached, now.Add(params.LeadTime))
		uc.logger.Info("GetAvailableSlots: served provider=%d from cache", req.ProviderID)
		return uc.response(req, params, cached), nil
	}

	// 6. Активные бронирования горизонта
	// нижняя граница сдвинута на максимальную длину визита: бронь до полуночи может заходить в первый день
	from := today.Add(-time.Duration(domain.MaxSlotDurationMinutes) * time.Minute)
	to := today.AddDate(0, 0, params.DaysAhead+1)
	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: req.ProviderID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Расчёт
	days, err := CalculateAvailability(profile, bookings, params, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to calculate availability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if cacheable {
		if err := uc.cache.Set(ctx, key, version, days); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache write failed for provider=%d: %v", req.ProviderID, err)
		}
	}

	uc.logger.Info("GetAvailableSlots: calculated %d days for provider=%d from %d active bookings",
		len(days), req.ProviderID, len(bookings))

	return uc.response(req, params, days), nil
}

func (uc *UseCase) response(req *Request, params Params, days []domain.DayAvailability) *Response {
	return &Response{
		ProviderID:  req.ProviderID,
		ServiceID:   req.ServiceID,
		SlotMinutes: params.SlotMinutes,
		Days:        days,
	}
}

func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.Days != nil && (*req.Days < domain.MinAdvanceBookingDays || *req.Days > domain.MaxAdvanceBookingDays) {
		return fmt.Errorf("%w: days must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	return nil
}
