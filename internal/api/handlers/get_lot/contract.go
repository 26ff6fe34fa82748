package get_lot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type SlotInventory interface {
	GetLot(ctx context.Context, id string) (*domain.Lot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
