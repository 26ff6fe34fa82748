package list_lots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type SlotInventory interface {
	ListLots(ctx context.Context) ([]*domain.Lot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
