package domain

import "time"

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingExtended  EventType = "booking.extended"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// BookingEvent событие, публикуемое после фиксации перехода
type BookingEvent struct {
	Type        EventType     `json:"type"`
	BookingID   string        `json:"bookingId"`
	UserID      int64         `json:"userId"`
	LotID       string        `json:"lotId"`
	SlotNumber  string        `json:"slotNumber"`
	Status      BookingStatus `json:"status"`
	EndTime     time.Time     `json:"endTime"`
	TotalAmount float64       `json:"totalAmount"`
	OccurredAt  time.Time     `json:"occurredAt"`
}

// NewBookingEvent формирует событие по текущему состоянию бронирования
func NewBookingEvent(t EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:        t,
		BookingID:   b.ID,
		UserID:      b.UserID,
		LotID:       b.LotID,
		SlotNumber:  b.SlotNumber,
		Status:      b.Status,
		EndTime:     b.EndTime,
		TotalAmount: b.TotalAmount,
		OccurredAt:  at,
	}
}

// LotLockKey ключ блокировки парковки
// Берется раньше SlotLockKey, если нужны обе
func LotLockKey(lotID string) string {
	return "lot:" + lotID
}

// SlotLockKey ключ блокировки места
func SlotLockKey(lotID, slotNumber string) string {
	return "slot:" + lotID + ":" + slotNumber
}
