package locker

import "errors"

var (
	// ErrAcquire возвращается при ошибке Redis во время захвата блокировки
	ErrAcquire = errors.New("locker: failed to acquire lock")

	// ErrTimeout возвращается, когда блокировку не удалось получить до отмены контекста
	ErrTimeout = errors.New("locker: lock wait cancelled")
)
