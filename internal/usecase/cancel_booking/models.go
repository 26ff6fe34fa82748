package cancel_booking

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID string
	Actor     domain.Actor
}
