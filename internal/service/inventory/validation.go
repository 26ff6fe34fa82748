package inventory

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
)

func validateCreateLot(req *models.CreateLotRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if err := validatePrice(req.PricePerHour); err != nil {
		return err
	}
	if req.TotalSlots < domain.MinTotalSlots || req.TotalSlots > domain.MaxTotalSlots {
		return fmt.Errorf("%w: totalSlots must be between %d and %d",
			domain.ErrInvalidInput, domain.MinTotalSlots, domain.MaxTotalSlots)
	}
	return nil
}

func validateUpdateLot(req *models.UpdateLotRequest) error {
	if req.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	if req.Address != nil && strings.TrimSpace(*req.Address) == "" {
		return fmt.Errorf("%w: address must not be empty", domain.ErrInvalidInput)
	}
	if req.PricePerHour != nil {
		return validatePrice(*req.PricePerHour)
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: pricePerHour must be >= 0", domain.ErrInvalidInput)
	}
	return nil
}

func validateSlotRef(lotID, slotNumber string) error {
	if err := domain.ValidateID(lotID); err != nil {
		return err
	}
	if strings.TrimSpace(slotNumber) == "" {
		return fmt.Errorf("%w: slotNumber is required", domain.ErrInvalidInput)
	}
	return nil
}
