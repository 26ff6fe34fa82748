package paymentservice

// CreatePaymentRequest запрос на регистрацию платежа по бронированию
type CreatePaymentRequest struct {
	BookingID string  `json:"booking_id"`
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`
}

// Payment модель платежа из PaymentService
type Payment struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
