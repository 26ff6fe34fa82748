package models

import (
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// CreateLotRequest запрос на создание парковки
// Места генерируются автоматически: A001..Annn
type CreateLotRequest struct {
	Name         string
	Address      string
	PricePerHour float64
	TotalSlots   int
}

// UpdateLotRequest запрос на обновление парковки
// Все поля опциональны - обновляются только переданные значения
type UpdateLotRequest struct {
	Name         *string
	Address      *string
	PricePerHour *float64
}

// IsEmpty сообщает, что в запросе нет ни одного поля для обновления
func (r *UpdateLotRequest) IsEmpty() bool {
	return r.Name == nil && r.Address == nil && r.PricePerHour == nil
}

// ToDomainLot конвертирует запрос в domain модель парковки (без ID)
func (r *CreateLotRequest) ToDomainLot() *domain.Lot {
	lot := &domain.Lot{
		Name:         strings.TrimSpace(r.Name),
		Address:      strings.TrimSpace(r.Address),
		PricePerHour: r.PricePerHour,
		Slots:        domain.GenerateSlots(r.TotalSlots),
	}
	lot.RecomputeAvailable()
	return lot
}

// ApplyTo применяет переданные поля к парковке
func (r *UpdateLotRequest) ApplyTo(lot *domain.Lot) {
	if r.Name != nil {
		lot.Name = strings.TrimSpace(*r.Name)
	}
	if r.Address != nil {
		lot.Address = strings.TrimSpace(*r.Address)
	}
	if r.PricePerHour != nil {
		lot.PricePerHour = *r.PricePerHour
	}
}
