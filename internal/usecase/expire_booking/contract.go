package expire_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	MarkCompleted(ctx context.Context, id string, now time.Time) (bool, error)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
