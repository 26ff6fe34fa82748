package reconcile_slots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// SlotInventory интерфейс инвентаря мест
type SlotInventory interface {
	ListLots(ctx context.Context) ([]*domain.Lot, error)
	Release(ctx context.Context, lotID, slotNumber string) error
}

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	ListHoldingByLot(ctx context.Context, lotID string) ([]*domain.Booking, error)
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
