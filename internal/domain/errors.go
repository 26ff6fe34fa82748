package domain

import "errors"

// Таксономия ошибок ядра бронирования
var (
	// ErrNotFound парковка, место или бронирование не найдены
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput неположительная длительность, некорректные идентификаторы и т.п.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlotUnavailable место уже занято
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidState переход из несовместимого статуса
	ErrInvalidState = errors.New("invalid booking state")

	// ErrForbidden пользователь не является владельцем бронирования
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyTerminal бронирование уже отменено или завершено
	ErrAlreadyTerminal = errors.New("booking already cancelled or completed")
)
