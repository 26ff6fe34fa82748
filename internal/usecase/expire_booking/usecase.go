package expire_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case завершения просроченного бронирования
// Вызывается планировщиком для каждого найденного бронирования
type UseCase struct {
	ledger    BookingLedger
	inventory SlotInventory
	locker    Locker
	publisher EventPublisher
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger BookingLedger,
	inventory SlotInventory,
	locker Locker,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:    ledger,
		inventory: inventory,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute переводит бронирование в completed и освобождает место
//
// domain.ErrInvalidState от журнала означает, что бронирование уже обработал кто-то другой
// (отмена или продление успели раньше), это не ошибка.
// Место освобождается только если завершение выполнил этот вызов: иначе можно освободить
// место, которое уже занято новым бронированием.
func (uc *UseCase) Execute(ctx context.Context, booking *domain.Booking, now time.Time) (Outcome, error) {
	completed, err := uc.ledger.MarkCompleted(ctx, booking.ID, now)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			uc.logger.Info("ExpireBooking: booking id=%s already handled: %v", booking.ID, err)
			return OutcomeSkipped, nil
		}
		return OutcomeFailed, err
	}
	if !completed {
		return OutcomeSkipped, nil
	}

	if err := uc.releaseSlot(ctx, booking); err != nil {
		return OutcomeFailed, err
	}

	booking.Status = domain.StatusCompleted
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCompleted, booking, now)); err != nil {
		uc.logger.Warn("ExpireBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
	}

	uc.logger.Info("ExpireBooking: booking id=%s completed, slot %s in lot id=%s released",
		booking.ID, booking.SlotNumber, booking.LotID)
	return OutcomeCompleted, nil
}

func (uc *UseCase) releaseSlot(ctx context.Context, booking *domain.Booking) error {
	unlock, err := uc.locker.Lock(ctx, domain.SlotLockKey(booking.LotID, booking.SlotNumber))
	if err != nil {
		return fmt.Errorf("%w: booking id=%s: lock slot: %v", ErrReleaseFailed, booking.ID, err)
	}
	defer unlock()

	if err := uc.inventory.Release(ctx, booking.LotID, booking.SlotNumber); err != nil {
		return fmt.Errorf("%w: booking id=%s: %v", ErrReleaseFailed, booking.ID, err)
	}
	return nil
}
