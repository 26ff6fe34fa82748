package models

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Draft черновик бронирования, подготовленный координатором
// Время окончания и сумма уже рассчитаны
type Draft struct {
	UserID        int64
	LotID         string
	SlotNumber    string
	VehicleNumber *string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours int
	PricePerHour  float64
	TotalAmount   float64
}

// ToDomainBooking конвертирует черновик в новое бронирование в статусе active
func (d *Draft) ToDomainBooking(id string, now time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		UserID:        d.UserID,
		LotID:         d.LotID,
		SlotNumber:    d.SlotNumber,
		VehicleNumber: d.VehicleNumber,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		DurationHours: d.DurationHours,
		PricePerHour:  d.PricePerHour,
		TotalAmount:   d.TotalAmount,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ListFilter параметры выборки бронирований для администратора
type ListFilter struct {
	UserID *int64
	LotID  *string
	Status *domain.BookingStatus
}

// ToDomainFilter конвертирует параметры в фильтр хранилища
func (f ListFilter) ToDomainFilter() domain.BookingFilter {
	filter := domain.BookingFilter{
		UserID: f.UserID,
		LotID:  f.LotID,
	}
	if f.Status != nil {
		filter.Statuses = []domain.BookingStatus{*f.Status}
	}
	return filter
}
