package extend_booking

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UseCase use case для продления бронирования
// Инвентарь не затрагивается: место остается за тем же бронированием
type UseCase struct {
	ledger       BookingLedger
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(ledger BookingLedger, publisher EventPublisher, logger Logger) *UseCase {
	return &UseCase{
		ledger:       ledger,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute продлевает бронирование и публикует событие booking.extended
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("ExtendBooking: booking=%s, user=%d, hours=%d", req.BookingID, req.Actor.UserID, req.AdditionalHours)

	booking, err := uc.ledger.Extend(ctx, req.BookingID, req.Actor, req.AdditionalHours)
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingExtended, booking, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("ExtendBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
	}

	return booking, nil
}
