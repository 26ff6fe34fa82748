package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	ledger       BookingLedger
	inventory    SlotInventory
	locker       Locker
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
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
		ledger:       ledger,
		inventory:    inventory,
		locker:       locker,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронирование и освобождает место
//
// Запись в журнале первична: если освободить место не удалось (например, парковку удалили),
// отмена все равно считается успешной, место вернет reconcile_slots.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CancelBooking: booking=%s, user=%d", req.BookingID, req.Actor.UserID)

	// 1. Отменяем бронирование
	booking, err := uc.ledger.Cancel(ctx, req.BookingID, req.Actor)
	if err != nil {
		return nil, err
	}

	// 2. Освобождаем место, best-effort
	uc.releaseSlot(context.WithoutCancel(ctx), booking)

	// 3. Публикуем событие
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCancelled, booking, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
	}

	uc.logger.Info("CancelBooking: booking id=%s cancelled", booking.ID)
	return booking, nil
}

func (uc *UseCase) releaseSlot(ctx context.Context, booking *domain.Booking) {
	unlock, err := uc.locker.Lock(ctx, domain.SlotLockKey(booking.LotID, booking.SlotNumber))
	if err != nil {
		uc.logger.Warn("CancelBooking: failed to lock slot %s in lot id=%s, slot left for reconciliation: %v",
			booking.SlotNumber, booking.LotID, err)
		return
	}
	defer unlock()

	if err := uc.inventory.Release(ctx, booking.LotID, booking.SlotNumber); err != nil {
		uc.logger.Warn("CancelBooking: failed to release slot %s in lot id=%s for booking id=%s: %v",
			booking.SlotNumber, booking.LotID, booking.ID, err)
	}
}
