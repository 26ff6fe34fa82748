package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
)

// SlotInventory интерфейс инвентаря мест
type SlotInventory interface {
	GetLot(ctx context.Context, id string) (*domain.Lot, error)
	Reserve(ctx context.Context, lotID, slotNumber string) error
	Release(ctx context.Context, lotID, slotNumber string) error
}

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	Create(ctx context.Context, draft *models.Draft) (*domain.Booking, error)
	AttachPayment(ctx context.Context, id string, paymentID string) error
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	CreatePaymentWithGracefulDegradation(ctx context.Context, req *paymentservice.CreatePaymentRequest) (*paymentservice.Payment, error)
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Locker интерфейс блокировки по ключу
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
