package inventory

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках сервиса (хранилище недоступно и т.п.)
	ErrInternal = errors.New("inventory: internal error")
)
