package expire_booking

import "errors"

var (
	// ErrReleaseFailed бронирование завершено, но место освободить не удалось
	ErrReleaseFailed = errors.New("expire_booking: slot release failed")
)
