package create_booking

import (
	createBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LotID         string  `json:"lotId" validate:"required"`
	SlotNumber    string  `json:"slotNumber" validate:"required"`
	DurationHours int     `json:"durationHours" validate:"required,min=1"`
	VehicleNumber *string `json:"vehicleNumber,omitempty" validate:"omitempty,max=20"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) *createBooking.Request {
	return &createBooking.Request{
		UserID:        userID,
		LotID:         r.LotID,
		SlotNumber:    r.SlotNumber,
		DurationHours: r.DurationHours,
		VehicleNumber: r.VehicleNumber,
	}
}
