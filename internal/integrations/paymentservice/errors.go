package paymentservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidRequest возвращается, когда PaymentService отклонил запрос
	ErrInvalidRequest = errors.New("paymentservice client: invalid request")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrServiceDegraded возвращается, когда PaymentService недоступен
	// Бронирование при этом остается действительным, ссылка на платеж не сохраняется
	ErrServiceDegraded = errors.New("paymentservice unavailable: graceful degradation applied")
)
