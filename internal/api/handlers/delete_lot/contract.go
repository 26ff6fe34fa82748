package delete_lot

import (
	"context"

	deleteLot "github.com/m04kA/SMC-ParkingService/internal/usecase/delete_lot"
)

type DeleteLotUseCase interface {
	Execute(ctx context.Context, req *deleteLot.Request) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
