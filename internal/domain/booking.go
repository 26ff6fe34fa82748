package domain

import "time"

// BookingStatus статус бронирования парковочного места
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusExtended  BookingStatus = "extended"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking бронирование одного места одним пользователем на ограниченное время
type Booking struct {
	ID            string
	UserID        int64
	LotID         string
	SlotNumber    string
	VehicleNumber *string
	StartTime     time.Time
	EndTime       time.Time
	DurationHours int
	// Цена часа на момент создания, используется при продлении
	PricePerHour float64
	TotalAmount  float64
	Status       BookingStatus
	// Слабая ссылка на платеж, бронирование им не владеет
	PaymentID *string

	CancelledAt *time.Time
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHolding возвращает true, если бронирование удерживает место (active или extended)
func (b *Booking) IsHolding() bool {
	return b.Status.IsHolding()
}

// IsTerminal возвращает true для cancelled и completed
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsExpired возвращает true, если бронирование удерживает место и его время вышло
func (b *Booking) IsExpired(now time.Time) bool {
	return b.IsHolding() && b.EndTime.Before(now)
}

// IsOwnedBy проверяет, что бронирование принадлежит пользователю
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// Clone возвращает глубокую копию бронирования
func (b *Booking) Clone() *Booking {
	c := *b
	if b.VehicleNumber != nil {
		v := *b.VehicleNumber
		c.VehicleNumber = &v
	}
	if b.PaymentID != nil {
		p := *b.PaymentID
		c.PaymentID = &p
	}
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func (s BookingStatus) IsHolding() bool {
	return s == StatusActive || s == StatusExtended
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid проверяет, что статус входит в допустимый набор
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusExtended, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// BookingFilter фильтр выборки бронирований
// Пустые поля не участвуют в фильтрации
type BookingFilter struct {
	UserID    *int64
	LotID     *string
	Statuses  []BookingStatus
	EndBefore *time.Time // строго endTime < EndBefore
}

// Matches проверяет бронирование на соответствие фильтру
func (f BookingFilter) Matches(b *Booking) bool {
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.LotID != nil && b.LotID != *f.LotID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if b.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.EndBefore != nil && !b.EndTime.Before(*f.EndBefore) {
		return false
	}
	return true
}
