package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID генерирует идентификатор парковки или бронирования
func NewID() string {
	return uuid.NewString()
}

// ValidateID проверяет, что идентификатор является корректным UUID
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id %q", ErrInvalidInput, id)
	}
	return nil
}
