package extend_booking

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	extendBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
)

type ExtendBookingUseCase interface {
	Execute(ctx context.Context, req *extendBooking.Request) (*domain.Booking, error)
}

type OperationMetrics interface {
	IncBookingOperation(operation, result string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
