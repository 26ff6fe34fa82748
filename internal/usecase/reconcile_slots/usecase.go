package reconcile_slots

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase сверка инвентаря: освобождает места в статусе booked,
// на которые не ссылается ни одно active/extended бронирование.
//
// Такие места остаются, если освобождение при отмене или завершении не удалось.
// Каждое место проверяется под его блокировкой, поэтому окно reserve -> create
// у create_booking сверка не видит.
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

// Execute проходит по всем парковкам; ошибка по одной парковке не прерывает остальные
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	lots, err := uc.inventory.ListLots(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, lot := range lots {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.LotsChecked++
		released, failed := uc.reconcileLot(ctx, lot)
		result.SlotsReleased += released
		result.Failed += failed
	}

	if result.SlotsReleased > 0 || result.Failed > 0 {
		uc.logger.Info("ReconcileSlots: checked %d lots, released %d slots, %d failures",
			result.LotsChecked, result.SlotsReleased, result.Failed)
	}
	return result, nil
}

func (uc *UseCase) reconcileLot(ctx context.Context, lot *domain.Lot) (released, failed int) {
	for _, slot := range lot.Slots {
		if slot.IsAvailable() {
			continue
		}

		ok, err := uc.reconcileSlot(ctx, lot.ID, slot.SlotNumber)
		switch {
		case err != nil:
			uc.logger.Warn("ReconcileSlots: slot %s in lot id=%s: %v", slot.SlotNumber, lot.ID, err)
			failed++
		case ok:
			released++
		}
	}
	return released, failed
}

func (uc *UseCase) reconcileSlot(ctx context.Context, lotID, slotNumber string) (bool, error) {
	unlock, err := uc.locker.Lock(ctx, domain.SlotLockKey(lotID, slotNumber))
	if err != nil {
		return false, err
	}
	defer unlock()

	holding, err := uc.ledger.ListHoldingByLot(ctx, lotID)
	if err != nil {
		return false, err
	}
	for _, b := range holding {
		if b.SlotNumber == slotNumber {
			return false, nil
		}
	}

	// Статус мог измениться до взятия блокировки: Release идемпотентна
	if err := uc.inventory.Release(ctx, lotID, slotNumber); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	uc.logger.Warn("ReconcileSlots: released orphaned slot %s in lot id=%s", slotNumber, lotID)
	return true, nil
}
