package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	Cancel(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error)
}

// SlotInventory интерфейс инвентаря мест
type SlotInventory interface {
	Release(ctx context.Context, lotID, slotNumber string) error
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
