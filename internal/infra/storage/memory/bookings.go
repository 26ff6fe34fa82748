package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
)

// BookingStore хранилище бронирований в памяти
// Повторяет ограничение частичного уникального индекса: не больше одного active/extended бронирования на место
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

// NewBookingStore создает пустое хранилище бронирований
func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[string]*domain.Booking)}
}

func (s *BookingStore) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return nil, bookingRepo.ErrDuplicateID
	}

	if booking.IsHolding() {
		for _, b := range s.bookings {
			if b.IsHolding() && b.LotID == booking.LotID && b.SlotNumber == booking.SlotNumber {
				return nil, bookingRepo.ErrSlotTaken
			}
		}
	}

	stored := booking.Clone()
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	s.bookings[stored.ID] = stored

	return stored.Clone(), nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return booking.Clone(), nil
}

func (s *BookingStore) Update(_ context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	updated := booking.Clone()
	// Неизменяемые поля остаются как при создании
	updated.UserID = stored.UserID
	updated.LotID = stored.LotID
	updated.SlotNumber = stored.SlotNumber
	updated.StartTime = stored.StartTime
	updated.PricePerHour = stored.PricePerHour
	updated.CreatedAt = stored.CreatedAt
	s.bookings[booking.ID] = updated

	return nil
}

func (s *BookingStore) Find(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if filter.Matches(b) {
			result = append(result, b.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *BookingStore) Count(_ context.Context, filter domain.BookingFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookings {
		if filter.Matches(b) {
			count++
		}
	}
	return count, nil
}
