package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
)

// Service инвентарь мест: владеет списком мест парковки и их статусами
type Service struct {
	lotRepo LotRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса инвентаря
func NewService(lotRepo LotRepository, logger Logger) *Service {
	return &Service{
		lotRepo: lotRepo,
		logger:  logger,
	}
}

// Reserve переводит место available -> booked
//
// Ошибки:
// - domain.ErrNotFound - парковки или места нет
// - domain.ErrSlotUnavailable - место уже занято
func (s *Service) Reserve(ctx context.Context, lotID, slotNumber string) error {
	if err := validateSlotRef(lotID, slotNumber); err != nil {
		return err
	}

	err := s.lotRepo.UpdateSlotStatus(ctx, lotID, slotNumber, domain.SlotAvailable, domain.SlotBooked)
	switch {
	case err == nil:
		s.logger.Info("Reserve: slot %s in lot id=%s booked", slotNumber, lotID)
		return nil
	case errors.Is(err, lotRepo.ErrStatusConflict):
		s.logger.Warn("Reserve: slot %s in lot id=%s is already booked", slotNumber, lotID)
		return fmt.Errorf("%w: slot %s in lot id=%s", domain.ErrSlotUnavailable, slotNumber, lotID)
	case errors.Is(err, lotRepo.ErrLotNotFound):
		s.logger.Warn("Reserve: lot id=%s not found", lotID)
		return fmt.Errorf("%w: lot id=%s", domain.ErrNotFound, lotID)
	case errors.Is(err, lotRepo.ErrSlotNotFound):
		s.logger.Warn("Reserve: slot %s not found in lot id=%s", slotNumber, lotID)
		return fmt.Errorf("%w: slot %s in lot id=%s", domain.ErrNotFound, slotNumber, lotID)
	default:
		s.logger.Error("Reserve: repository error for slot %s in lot id=%s: %v", slotNumber, lotID, err)
		return fmt.Errorf("%w: Reserve - repository error: %v", ErrInternal, err)
	}
}

// Release переводит место booked -> available
// Идемпотентна: если место уже свободно, ничего не делает
func (s *Service) Release(ctx context.Context, lotID, slotNumber string) error {
	if err := validateSlotRef(lotID, slotNumber); err != nil {
		return err
	}

	err := s.lotRepo.UpdateSlotStatus(ctx, lotID, slotNumber, domain.SlotBooked, domain.SlotAvailable)
	switch {
	case err == nil:
		s.logger.Info("Release: slot %s in lot id=%s released", slotNumber, lotID)
		return nil
	case errors.Is(err, lotRepo.ErrStatusConflict):
		return nil
	case errors.Is(err, lotRepo.ErrLotNotFound):
		return fmt.Errorf("%w: lot id=%s", domain.ErrNotFound, lotID)
	case errors.Is(err, lotRepo.ErrSlotNotFound):
		return fmt.Errorf("%w: slot %s in lot id=%s", domain.ErrNotFound, slotNumber, lotID)
	default:
		s.logger.Error("Release: repository error for slot %s in lot id=%s: %v", slotNumber, lotID, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}
}

// CreateLot создает парковку с местами A001..Annn
func (s *Service) CreateLot(ctx context.Context, req *models.CreateLotRequest) (*domain.Lot, error) {
	s.logger.Info("CreateLot: creating lot name=%q with %d slots", req.Name, req.TotalSlots)

	if err := validateCreateLot(req); err != nil {
		s.logger.Warn("CreateLot: validation failed: %v", err)
		return nil, err
	}

	lot := req.ToDomainLot()
	lot.ID = domain.NewID()

	created, err := s.lotRepo.Create(ctx, lot)
	if err != nil {
		s.logger.Error("CreateLot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateLot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateLot: successfully created lot id=%s", created.ID)
	return created, nil
}

// GetLot получает парковку вместе с местами
func (s *Service) GetLot(ctx context.Context, id string) (*domain.Lot, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	lot, err := s.lotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			s.logger.Warn("GetLot: lot id=%s not found", id)
			return nil, fmt.Errorf("%w: lot id=%s", domain.ErrNotFound, id)
		}
		s.logger.Error("GetLot: repository error for lot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetLot - repository error: %v", ErrInternal, err)
	}

	return lot, nil
}

// ListLots возвращает все парковки
func (s *Service) ListLots(ctx context.Context) ([]*domain.Lot, error) {
	lots, err := s.lotRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListLots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListLots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListLots: fetched %d lots", len(lots))
	return lots, nil
}

// UpdateLot обновляет название, адрес и цену парковки
// Набор мест не меняется. Новая цена действует только на будущие бронирования.
func (s *Service) UpdateLot(ctx context.Context, id string, req *models.UpdateLotRequest) (*domain.Lot, error) {
	s.logger.Info("UpdateLot: updating lot id=%s", id)

	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	if err := validateUpdateLot(req); err != nil {
		s.logger.Warn("UpdateLot: validation failed: %v", err)
		return nil, err
	}

	lot, err := s.GetLot(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(lot)

	if err := s.lotRepo.Update(ctx, lot); err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			return nil, fmt.Errorf("%w: lot id=%s", domain.ErrNotFound, id)
		}
		s.logger.Error("UpdateLot: repository error for lot id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateLot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateLot: successfully updated lot id=%s", id)
	return s.GetLot(ctx, id)
}

// DeleteLot удаляет парковку вместе с местами
// Проверка на удерживающие бронирования выполняется уровнем выше
func (s *Service) DeleteLot(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	if err := s.lotRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, lotRepo.ErrLotNotFound) {
			s.logger.Warn("DeleteLot: lot id=%s not found", id)
			return fmt.Errorf("%w: lot id=%s", domain.ErrNotFound, id)
		}
		s.logger.Error("DeleteLot: repository error for lot id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteLot - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteLot: lot id=%s deleted", id)
	return nil
}
