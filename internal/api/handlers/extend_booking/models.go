package extend_booking

// ExtendBookingRequest HTTP request model
// additionalHours проверяет журнал после поиска бронирования и проверки владельца
type ExtendBookingRequest struct {
	AdditionalHours int `json:"additionalHours"`
}
