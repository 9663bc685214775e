package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/AppointmentService/internal/infra/storage/settings"
	providerClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	"github.com/m04kA/AppointmentService/internal/service/settings/models"
)

// Service сервис настроек бронирования провайдеров
type Service struct {
	settingsRepo   SettingsRepository
	providerClient ProviderServiceClient
	cache          AvailabilityCache
	logger         Logger

	// переопределения значений по умолчанию из конфига, 0 = константа домена
	defaultSlotMinutes int
	defaultDaysAhead   int
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	providerClient ProviderServiceClient,
	cache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo:   settingsRepo,
		providerClient: providerClient,
		cache:          cache,
		logger:         logger,
	}
}

// WithDefaults задает значения по умолчанию для провайдеров без сохранённых настроек
func (s *Service) WithDefaults(slotMinutes, daysAhead int) *Service {
	s.defaultSlotMinutes = slotMinutes
	s.defaultDaysAhead = daysAhead
	return s
}

func (s *Service) defaultSettings(providerID int64) *domain.ProviderBookingSettings {
	settings := domain.DefaultBookingSettings(providerID)
	if s.defaultSlotMinutes > 0 {
		settings.SlotDurationMinutes = s.defaultSlotMinutes
	}
	if s.defaultDaysAhead > 0 {
		settings.AdvanceBookingDays = s.defaultDaysAhead
	}
	return settings
}

// Create создает настройки бронирования провайдера или конкретной услуги
// Доступно только менеджерам провайдера
func (s *Service) Create(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Create: creating settings for provider=%d, service=%v by user=%d",
		req.ProviderID, req.ServiceID, req.UserID)

	if err := validateSettings(req.SlotDurationMinutes, req.AdvanceBookingDays, req.MinBookingNoticeMinutes); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, "Create", req.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	if req.ServiceID != nil {
		if _, err := s.providerClient.GetService(ctx, req.ProviderID, *req.ServiceID); err != nil {
			if errors.Is(err, providerClient.ErrServiceNotFound) {
				s.logger.Warn("Create: service id=%d not found at provider=%d", *req.ServiceID, req.ProviderID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Create: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: Create - failed to get service: %v", ErrInternal, err)
		}
	}

	created, err := s.settingsRepo.Create(ctx, req.ToDomainSettings())
	if err != nil {
		if errors.Is(err, settingsRepo.ErrDuplicateSettings) {
			s.logger.Warn("Create: settings already exist for provider=%d, service=%v", req.ProviderID, req.ServiceID)
			return nil, ErrSettingsAlreadyExist
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, created.ProviderID)

	s.logger.Info("Create: successfully created settings id=%d", created.ID)
	return models.FromDomainSettings(created), nil
}

// GetByID получает настройки по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SettingsResponse, error) {
	settings, err := s.getSettings(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// GetEffective возвращает действующие настройки: уровень услуги, затем уровень
// провайдера, затем значения по умолчанию
func (s *Service) GetEffective(ctx context.Context, providerID int64, serviceID *int64) (*domain.ProviderBookingSettings, error) {
	settings, err := s.settingsRepo.GetWithHierarchy(ctx, providerID, serviceID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return s.defaultSettings(providerID), nil
		}
		s.logger.Error("GetEffective: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// GetAllByProvider получает все настройки провайдера
// Доступно только менеджерам провайдера
func (s *Service) GetAllByProvider(ctx context.Context, providerID int64, userID int64) (*models.SettingsListResponse, error) {
	s.logger.Info("GetAllByProvider: fetching settings for provider=%d by user=%d", providerID, userID)

	if err := s.checkManagerAccess(ctx, "GetAllByProvider", providerID, userID); err != nil {
		return nil, err
	}

	list, err := s.settingsRepo.GetAllByProvider(ctx, providerID)
	if err != nil {
		s.logger.Error("GetAllByProvider: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetAllByProvider - repository error: %v", ErrInternal, err)
	}

	if len(list) == 0 {
		list = []*domain.ProviderBookingSettings{s.defaultSettings(providerID)}
	}

	s.logger.Info("GetAllByProvider: fetched %d settings for provider=%d", len(list), providerID)
	return models.FromDomainSettingsList(list), nil
}

// Update частично обновляет настройки
// Доступно только менеджерам провайдера
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings id=%d by user=%d", id, req.UserID)

	settings, err := s.getSettings(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, "Update", settings.ProviderID, req.UserID); err != nil {
		return nil, err
	}

	req.ApplyToSettings(settings)
	if err := validateSettings(settings.SlotDurationMinutes, settings.AdvanceBookingDays, settings.MinBookingNoticeMinutes); err != nil {
		s.logger.Warn("Update: validation failed for settings id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.settingsRepo.Update(ctx, id, settings)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Update: repository error for settings id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, updated.ProviderID)

	s.logger.Info("Update: successfully updated settings id=%d", id)
	return models.FromDomainSettings(updated), nil
}

// Delete удаляет настройки, провайдер возвращается к вышестоящему уровню
// Доступно только менеджерам провайдера
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Delete: deleting settings id=%d by user=%d", id, userID)

	settings, err := s.getSettings(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if err := s.checkManagerAccess(ctx, "Delete", settings.ProviderID, userID); err != nil {
		return err
	}

	if err := s.settingsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return ErrSettingsNotFound
		}
		s.logger.Error("Delete: repository error for settings id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, settings.ProviderID)

	s.logger.Info("Delete: successfully deleted settings id=%d", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getSettings(ctx context.Context, op string, id int64) (*domain.ProviderBookingSettings, error) {
	settings, err := s.settingsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("%s: settings id=%d not found", op, id)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("%s: repository error for settings id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return settings, nil
}

func (s *Service) checkManagerAccess(ctx context.Context, op string, providerID, userID int64) error {
	provider, err := s.providerClient.GetProvider(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerClient.ErrProviderNotFound) {
			s.logger.Warn("%s: provider id=%d not found", op, providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("%s: failed to get provider id=%d: %v", op, providerID, err)
		return fmt.Errorf("%w: %s - failed to get provider: %v", ErrInternal, op, err)
	}

	if !provider.IsManager(userID) {
		s.logger.Warn("%s: user=%d is not a manager of provider=%d", op, userID, providerID)
		return ErrAccessDenied
	}
	return nil
}

// invalidate новые настройки меняют сетку слотов
func (s *Service) invalidate(ctx context.Context, providerID int64) {
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		s.logger.Warn("invalidate: failed to invalidate availability of provider=%d: %v", providerID, err)
	}
}

func validateSettings(slotMinutes, advanceDays, noticeMinutes int) error {
	if slotMinutes < domain.MinSlotDurationMinutes || slotMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if advanceDays < domain.MinAdvanceBookingDays || advanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if noticeMinutes < domain.MinBookingNoticeMinutes || noticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	return nil
}
