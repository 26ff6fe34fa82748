package delete_lot

import "context"

// SlotInventory интерфейс инвентаря мест
type SlotInventory interface {
	DeleteLot(ctx context.Context, id string) error
}

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	CountActiveByLot(ctx context.Context, lotID string) (int, error)
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
