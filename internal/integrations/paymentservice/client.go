package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreatePayment регистрирует платеж по созданному бронированию
func (c *Client) CreatePayment(ctx context.Context, payload *CreatePaymentRequest) (*Payment, error) {
	url := fmt.Sprintf("%s/internal/payments", c.baseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errResp.Message)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	// Парсим ответ
	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if payment.ID == "" {
		return nil, fmt.Errorf("%w: empty payment id", ErrInvalidResponse)
	}

	return &payment, nil
}

// CreatePaymentWithGracefulDegradation регистрирует платеж с graceful degradation
// Отклоненный запрос пробрасывается как есть, остальные ошибки превращаются в ErrServiceDegraded
func (c *Client) CreatePaymentWithGracefulDegradation(ctx context.Context, payload *CreatePaymentRequest) (*Payment, error) {
	c.log.Info("Registering payment for booking_id=%s, amount=%.2f", payload.BookingID, payload.Amount)

	payment, err := c.CreatePayment(ctx, payload)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			c.log.Warn("PaymentService rejected payment for booking_id=%s: %v", payload.BookingID, err)
			return nil, err
		}

		c.log.Error("PaymentService unavailable, applying graceful degradation for booking_id=%s: %v", payload.BookingID, err)
		return nil, fmt.Errorf("%w: booking_id=%s, error=%v", ErrServiceDegraded, payload.BookingID, err)
	}

	c.log.Info("Successfully registered payment id=%s for booking_id=%s", payment.ID, payload.BookingID)
	return payment, nil
}
