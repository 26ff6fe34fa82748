package update_lot

import "github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"

// UpdateLotRequest HTTP request model, передаются только изменяемые поля
type UpdateLotRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	PricePerHour *float64 `json:"pricePerHour,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateLotRequest) ToServiceRequest() *models.UpdateLotRequest {
	return &models.UpdateLotRequest{
		Name:         r.Name,
		Address:      r.Address,
		PricePerHour: r.PricePerHour,
	}
}
