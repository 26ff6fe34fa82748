package broker

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к RabbitMQ
	ErrConnect = errors.New("broker: failed to connect")

	// ErrPublish возвращается при ошибке публикации сообщения
	ErrPublish = errors.New("broker: failed to publish")

	// ErrEncode возвращается при ошибке сериализации события
	ErrEncode = errors.New("broker: failed to encode event")
)
