package run_expiration_sweep

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/worker/expiration"
)

type ExpirationScheduler interface {
	RunExpirationSweep(ctx context.Context) (*expiration.SweepResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
