package delete_lot

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case удаления парковки
type UseCase struct {
	inventory SlotInventory
	ledger    BookingLedger
	locker    Locker
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(inventory SlotInventory, ledger BookingLedger, locker Locker, logger Logger) *UseCase {
	return &UseCase{
		inventory: inventory,
		ledger:    ledger,
		locker:    locker,
		logger:    logger,
	}
}

// Execute удаляет парковку, если на нее нет active/extended бронирований
// Доступно только администратору
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("DeleteLot: lot=%s by user=%d", req.LotID, req.Actor.UserID)

	// 1. Проверяем права
	if !req.Actor.IsAdmin() {
		uc.logger.Warn("DeleteLot: user=%d is not an admin", req.Actor.UserID)
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	if err := domain.ValidateID(req.LotID); err != nil {
		return err
	}

	// 2. Блокировка парковки держится от проверки до удаления, создание бронирования ждет ее
	unlock, err := uc.locker.Lock(ctx, domain.LotLockKey(req.LotID))
	if err != nil {
		uc.logger.Error("DeleteLot: failed to lock lot id=%s: %v", req.LotID, err)
		return fmt.Errorf("%w: lock lot: %v", ErrInternal, err)
	}
	defer unlock()

	// 3. Проверяем, что парковку никто не занимает
	active, err := uc.ledger.CountActiveByLot(ctx, req.LotID)
	if err != nil {
		return err
	}
	if active > 0 {
		uc.logger.Warn("DeleteLot: lot id=%s has %d active bookings", req.LotID, active)
		return fmt.Errorf("%w: lot id=%s has %d active bookings", domain.ErrInvalidState, req.LotID, active)
	}

	// 4. Удаляем
	return uc.inventory.DeleteLot(ctx, req.LotID)
}
