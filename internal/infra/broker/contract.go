package broker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Channel часть amqp.Channel, которой пользуется издатель
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Connector открывает соединение и канал
// Возвращаемая функция закрывает соединение
type Connector func() (Channel, func() error, error)

// DialConnector подключается к RabbitMQ по URL
func DialConnector(url string) Connector {
	return func() (Channel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, err
		}

		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			return nil, nil, err
		}

		return ch, conn.Close, nil
	}
}
