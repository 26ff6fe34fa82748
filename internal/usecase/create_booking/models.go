package create_booking

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64   // ID пользователя из заголовка авторизации
	LotID         string  // ID парковки
	SlotNumber    string  // Номер места, например "A001"
	DurationHours int     // Длительность в часах
	VehicleNumber *string // Госномер (опционально)
}
