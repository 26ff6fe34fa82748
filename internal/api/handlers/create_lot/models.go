package create_lot

import "github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"

// CreateLotRequest HTTP request model
type CreateLotRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Address      string  `json:"address" validate:"required,max=500"`
	PricePerHour float64 `json:"pricePerHour" validate:"gte=0"`
	TotalSlots   int     `json:"totalSlots" validate:"required,min=1,max=999"`
}

func (r *CreateLotRequest) ToServiceRequest() *models.CreateLotRequest {
	return &models.CreateLotRequest{
		Name:         r.Name,
		Address:      r.Address,
		PricePerHour: r.PricePerHour,
		TotalSlots:   r.TotalSlots,
	}
}
