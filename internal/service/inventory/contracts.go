package inventory

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// LotRepository интерфейс хранилища парковок и мест
type LotRepository interface {
	Create(ctx context.Context, lot *domain.Lot) (*domain.Lot, error)
	GetByID(ctx context.Context, id string) (*domain.Lot, error)
	List(ctx context.Context) ([]*domain.Lot, error)
	Update(ctx context.Context, lot *domain.Lot) error
	Delete(ctx context.Context, id string) error
	UpdateSlotStatus(ctx context.Context, lotID, slotNumber string, from, to domain.SlotStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
