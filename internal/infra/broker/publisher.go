package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const exchangeKind = "topic"

// Publisher публикует события бронирований в topic exchange
// Routing key совпадает с типом события: booking.created, booking.cancelled и т.д.
type Publisher struct {
	mu        sync.Mutex
	connect   Connector
	exchange  string
	channel   Channel
	closeConn func() error
	logger    Logger
}

// NewPublisher создает издателя и объявляет exchange
func NewPublisher(connect Connector, exchange string, logger Logger) (*Publisher, error) {
	p := &Publisher{
		connect:  connect,
		exchange: exchange,
		logger:   logger,
	}

	if err := p.ensureChannel(); err != nil {
		return nil, err
	}

	return p, nil
}

// Publish отправляет событие; при потере соединения переподключается один раз
func (p *Publisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	msg, err := buildPublishing(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.Warn("Publish: failed to publish %s for booking id=%s, reconnecting: %v", event.Type, event.BookingID, err)
	p.reset()

	if err := p.ensureChannel(); err != nil {
		return err
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPublish, event.Type, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}

	if err := p.channel.Close(); err != nil {
		p.logger.Warn("Close: failed to close channel: %v", err)
	}
	err := p.closeConn()
	p.channel = nil
	p.closeConn = nil
	return err
}

// ensureChannel вызывается под p.mu
func (p *Publisher) ensureChannel() error {
	if p.channel != nil {
		return nil
	}

	ch, closeConn, err := p.connect()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		closeConn()
		return fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, p.exchange, err)
	}

	p.channel = ch
	p.closeConn = closeConn
	return nil
}

func (p *Publisher) reset() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.closeConn != nil {
		p.closeConn()
	}
	p.channel = nil
	p.closeConn = nil
}

func buildPublishing(event domain.BookingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID + ":" + string(event.Type),
		Timestamp:    event.OccurredAt.UTC().Truncate(time.Second),
		Type:         string(event.Type),
		Body:         body,
	}, nil
}

// NopPublisher используется, когда брокер отключен в конфигурации
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.BookingEvent) error { return nil }
