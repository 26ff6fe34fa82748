package create_booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
)

// UseCase use case для создания бронирования
// Резервирует место и создает запись в журнале так, что снаружи это выглядит атомарно
type UseCase struct {
	inventory     SlotInventory
	ledger        BookingLedger
	locker        Locker
	paymentClient PaymentServiceClient
	publisher     EventPublisher
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// paymentClient может быть nil, если PaymentService отключен
func NewUseCase(
	inventory SlotInventory,
	ledger BookingLedger,
	locker Locker,
	paymentClient PaymentServiceClient,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		inventory:     inventory,
		ledger:        ledger,
		locker:        locker,
		paymentClient: paymentClient,
		publisher:     publisher,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
//
// Порядок: резерв места -> запись в журнале. Если запись не создалась,
// место освобождается компенсирующим release, и вызывающий получает ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: user=%d, lot=%s, slot=%s, duration=%dh",
		req.UserID, req.LotID, req.SlotNumber, req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}
	slotNumber := strings.TrimSpace(req.SlotNumber)

	// 2. Получаем парковку, цена фиксируется в бронировании
	lot, err := uc.inventory.GetLot(ctx, req.LotID)
	if err != nil {
		return nil, err
	}

	// 3. Берем блокировки парковки и места на все окно reserve -> create -> компенсация
	// Блокировка парковки не дает удалить ее, пока бронирование создается
	booking, err := uc.lockAndCreate(ctx, req, lot, slotNumber)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", booking.ID)

	// 4. Уведомляем PaymentService, на бронирование это не влияет
	uc.attachPayment(ctx, booking)

	// 5. Публикуем событие
	if err := uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, booking, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%s: %v", booking.ID, err)
	}

	return booking, nil
}

func (uc *UseCase) lockAndCreate(ctx context.Context, req *Request, lot *domain.Lot, slotNumber string) (*domain.Booking, error) {
	unlockLot, err := uc.locker.Lock(ctx, domain.LotLockKey(lot.ID))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock lot id=%s: %v", lot.ID, err)
		return nil, fmt.Errorf("%w: lock lot: %v", ErrInternal, err)
	}
	defer unlockLot()

	unlockSlot, err := uc.locker.Lock(ctx, domain.SlotLockKey(lot.ID, slotNumber))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock slot %s in lot id=%s: %v", slotNumber, lot.ID, err)
		return nil, fmt.Errorf("%w: lock slot: %v", ErrInternal, err)
	}
	defer unlockSlot()

	return uc.reserveAndCreate(ctx, req, lot, slotNumber)
}

func (uc *UseCase) reserveAndCreate(ctx context.Context, req *Request, lot *domain.Lot, slotNumber string) (*domain.Booking, error) {
	if err := uc.inventory.Reserve(ctx, lot.ID, slotNumber); err != nil {
		uc.logger.Warn("CreateBooking: failed to reserve slot %s in lot id=%s: %v", slotNumber, lot.ID, err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	draft := &models.Draft{
		UserID:        req.UserID,
		LotID:         lot.ID,
		SlotNumber:    slotNumber,
		VehicleNumber: vehicleNumberPtr(req.VehicleNumber),
		StartTime:     now,
		EndTime:       now.Add(time.Duration(req.DurationHours) * time.Hour),
		DurationHours: req.DurationHours,
		PricePerHour:  lot.PricePerHour,
		TotalAmount:   lot.PricePerHour * float64(req.DurationHours),
	}

	booking, err := uc.ledger.Create(ctx, draft)
	if err == nil {
		return booking, nil
	}

	uc.logger.Warn("CreateBooking: ledger create failed, releasing slot %s in lot id=%s: %v", slotNumber, lot.ID, err)

	// Компенсация выполняется даже если ctx запроса уже отменен
	if relErr := uc.inventory.Release(context.WithoutCancel(ctx), lot.ID, slotNumber); relErr != nil {
		uc.logger.Error("CreateBooking: compensating release failed for slot %s in lot id=%s: %v",
			slotNumber, lot.ID, relErr)
	}

	return nil, err
}

func (uc *UseCase) attachPayment(ctx context.Context, booking *domain.Booking) {
	if uc.paymentClient == nil {
		return
	}

	payment, err := uc.paymentClient.CreatePaymentWithGracefulDegradation(ctx, &paymentservice.CreatePaymentRequest{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    booking.TotalAmount,
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: payment not registered for booking id=%s: %v", booking.ID, err)
		return
	}

	if err := uc.ledger.AttachPayment(ctx, booking.ID, payment.ID); err != nil {
		uc.logger.Warn("CreateBooking: failed to attach payment %s to booking id=%s: %v", payment.ID, booking.ID, err)
		return
	}
	booking.PaymentID = &payment.ID
}
