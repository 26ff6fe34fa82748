package delete_lot

import "github.com/m04kA/SMC-ParkingService/internal/domain"

// Request модель запроса на удаление парковки
type Request struct {
	LotID string
	Actor domain.Actor
}
