package domain

import "time"

const (
	// SlotNumberPrefix префикс номеров мест, генерируемых при создании парковки
	SlotNumberPrefix = "A"

	MinTotalSlots = 1
	MaxTotalSlots = 999

	MaxVehicleNumberLength = 20
)

// ExpirationInterval период запуска sweep по умолчанию
const ExpirationInterval = time.Minute

// HoldingStatuses статусы, при которых бронирование удерживает место
var HoldingStatuses = []BookingStatus{
	StatusActive,
	StatusExtended,
}
