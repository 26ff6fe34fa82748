package expiration

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_booking"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/reconcile_slots"
)

// BookingLedger интерфейс журнала бронирований
type BookingLedger interface {
	FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error)
}

// ExpireBookingUseCase завершает одно просроченное бронирование
type ExpireBookingUseCase interface {
	Execute(ctx context.Context, booking *domain.Booking, now time.Time) (expire_booking.Outcome, error)
}

// ReconcileSlotsUseCase сверяет инвентарь с журналом
type ReconcileSlotsUseCase interface {
	Execute(ctx context.Context) (*reconcile_slots.Result, error)
}

// MetricsRecorder записывает метрики sweep
type MetricsRecorder interface {
	ObserveSweep(duration time.Duration, failed bool, outcomes map[string]int)
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
