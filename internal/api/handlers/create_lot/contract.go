package create_lot

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
)

type SlotInventory interface {
	CreateLot(ctx context.Context, req *models.CreateLotRequest) (*domain.Lot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
