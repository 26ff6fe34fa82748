package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", domain.ErrInvalidInput)
	}

	if err := domain.ValidateID(req.LotID); err != nil {
		return err
	}

	if strings.TrimSpace(req.SlotNumber) == "" {
		return fmt.Errorf("%w: slotNumber is required", domain.ErrInvalidInput)
	}

	if req.DurationHours <= 0 {
		return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}

	if req.VehicleNumber != nil && len(normalizeVehicleNumber(*req.VehicleNumber)) > domain.MaxVehicleNumberLength {
		return fmt.Errorf("%w: vehicleNumber is too long", domain.ErrInvalidInput)
	}

	return nil
}

// normalizeVehicleNumber приводит госномер к верхнему регистру без пробелов по краям
func normalizeVehicleNumber(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// vehicleNumberPtr возвращает nil для пустого госномера
func vehicleNumberPtr(v *string) *string {
	if v == nil {
		return nil
	}
	n := normalizeVehicleNumber(*v)
	if n == "" {
		return nil
	}
	return &n
}
