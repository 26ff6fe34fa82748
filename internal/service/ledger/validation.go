package ledger

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
)

func validateDraft(d *models.Draft) error {
	if d.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", domain.ErrInvalidInput)
	}
	if err := domain.ValidateID(d.LotID); err != nil {
		return err
	}
	if strings.TrimSpace(d.SlotNumber) == "" {
		return fmt.Errorf("%w: slotNumber is required", domain.ErrInvalidInput)
	}
	if d.DurationHours <= 0 {
		return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}
	if !d.EndTime.After(d.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", domain.ErrInvalidInput)
	}
	if d.PricePerHour < 0 || d.TotalAmount < 0 {
		return fmt.Errorf("%w: amounts must be >= 0", domain.ErrInvalidInput)
	}
	return nil
}

func validateAdditionalHours(hours int) error {
	if hours <= 0 {
		return fmt.Errorf("%w: additionalHours must be positive", domain.ErrInvalidInput)
	}
	return nil
}
