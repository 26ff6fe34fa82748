package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
)

const bookingLockPrefix = "booking:"

// Service журнал бронирований: владеет записями и допустимыми переходами статусов
// Все изменения одного бронирования сериализуются через Locker по его ID
type Service struct {
	bookingRepo  BookingRepository
	locker       Locker
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	locker Locker,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		locker:       locker,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create сохраняет новое бронирование в статусе active
// Место должно быть уже зарезервировано вызывающей стороной
func (s *Service) Create(ctx context.Context, draft *models.Draft) (*domain.Booking, error) {
	if err := validateDraft(draft); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	booking := draft.ToDomainBooking(domain.NewID(), s.timeProvider.Now())

	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			s.logger.Warn("Create: slot %s in lot id=%s is held by another booking", draft.SlotNumber, draft.LotID)
			return nil, fmt.Errorf("%w: slot %s in lot id=%s", domain.ErrSlotUnavailable, draft.SlotNumber, draft.LotID)
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: booking id=%s created for user=%d, slot %s in lot id=%s",
		created.ID, created.UserID, created.SlotNumber, created.LotID)
	return created, nil
}

// Extend продлевает бронирование на additionalHours часов
//
// Порядок проверок: NotFound, Forbidden, InvalidInput, InvalidState
func (s *Service) Extend(ctx context.Context, id string, actor domain.Actor, additionalHours int) (*domain.Booking, error) {
	s.logger.Info("Extend: booking id=%s by user=%d for %d hours", id, actor.UserID, additionalHours)

	var result *domain.Booking
	err := s.withBookingLock(ctx, id, func() error {
		booking, err := s.load(ctx, id, "Extend")
		if err != nil {
			return err
		}

		if !actor.CanManage(booking.UserID) {
			s.logger.Warn("Extend: user=%d is not the owner of booking id=%s", actor.UserID, id)
			return fmt.Errorf("%w: booking id=%s", domain.ErrForbidden, id)
		}

		if err := validateAdditionalHours(additionalHours); err != nil {
			s.logger.Warn("Extend: validation failed: %v", err)
			return err
		}

		if !booking.IsHolding() {
			s.logger.Warn("Extend: booking id=%s is %s", id, booking.Status)
			return fmt.Errorf("%w: cannot extend %s booking", domain.ErrInvalidState, booking.Status)
		}

		booking.EndTime = booking.EndTime.Add(time.Duration(additionalHours) * time.Hour)
		booking.DurationHours += additionalHours
		booking.TotalAmount += booking.PricePerHour * float64(additionalHours)
		booking.Status = domain.StatusExtended
		booking.UpdatedAt = s.timeProvider.Now()

		if err := s.save(ctx, booking, "Extend"); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Extend: booking id=%s extended until %s, total=%.2f",
		id, result.EndTime.Format(time.RFC3339), result.TotalAmount)
	return result, nil
}

// Cancel отменяет бронирование
// Повторная отмена возвращает domain.ErrAlreadyTerminal без изменения состояния
func (s *Service) Cancel(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	s.logger.Info("Cancel: booking id=%s by user=%d", id, actor.UserID)

	var result *domain.Booking
	err := s.withBookingLock(ctx, id, func() error {
		booking, err := s.load(ctx, id, "Cancel")
		if err != nil {
			return err
		}

		if !actor.CanManage(booking.UserID) {
			s.logger.Warn("Cancel: user=%d is not the owner of booking id=%s", actor.UserID, id)
			return fmt.Errorf("%w: booking id=%s", domain.ErrForbidden, id)
		}

		if booking.IsTerminal() {
			s.logger.Warn("Cancel: booking id=%s is already %s", id, booking.Status)
			return fmt.Errorf("%w: booking id=%s is %s", domain.ErrAlreadyTerminal, id, booking.Status)
		}

		now := s.timeProvider.Now()
		booking.Status = domain.StatusCancelled
		booking.CancelledAt = &now
		booking.UpdatedAt = now

		if err := s.save(ctx, booking, "Cancel"); err != nil {
			return err
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: booking id=%s cancelled", id)
	return result, nil
}

// MarkCompleted системный переход {active, extended} -> completed
//
// Возвращает true, если переход выполнен этим вызовом.
// Для уже завершенного или отмененного бронирования возвращает false без ошибки.
// Если бронирование еще не истекло (например, было продлено после выборки),
// возвращает domain.ErrInvalidState.
func (s *Service) MarkCompleted(ctx context.Context, id string, now time.Time) (bool, error) {
	completed := false
	err := s.withBookingLock(ctx, id, func() error {
		booking, err := s.load(ctx, id, "MarkCompleted")
		if err != nil {
			return err
		}

		if booking.IsTerminal() {
			return nil
		}

		if !booking.IsExpired(now) {
			return fmt.Errorf("%w: booking id=%s ends at %s", domain.ErrInvalidState, id, booking.EndTime.Format(time.RFC3339))
		}

		booking.Status = domain.StatusCompleted
		booking.CompletedAt = &now
		booking.UpdatedAt = now

		if err := s.save(ctx, booking, "MarkCompleted"); err != nil {
			return err
		}

		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if completed {
		s.logger.Info("MarkCompleted: booking id=%s completed", id)
	}
	return completed, nil
}

// AttachPayment сохраняет слабую ссылку на платеж
// Статус бронирования не проверяется и не меняется
func (s *Service) AttachPayment(ctx context.Context, id string, paymentID string) error {
	return s.withBookingLock(ctx, id, func() error {
		booking, err := s.load(ctx, id, "AttachPayment")
		if err != nil {
			return err
		}

		booking.PaymentID = &paymentID
		booking.UpdatedAt = s.timeProvider.Now()

		if err := s.save(ctx, booking, "AttachPayment"); err != nil {
			return err
		}

		s.logger.Info("AttachPayment: payment %s attached to booking id=%s", paymentID, id)
		return nil
	})
}

// GetByID получает бронирование по ID
// Доступно владельцу и администратору
func (s *Service) GetByID(ctx context.Context, id string, actor domain.Actor) (*domain.Booking, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	booking, err := s.load(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(booking.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%s", actor.UserID, id)
		return nil, fmt.Errorf("%w: booking id=%s", domain.ErrForbidden, id)
	}

	return booking, nil
}

// ListByUser возвращает историю бронирований пользователя, новые сначала
// Пользователь видит только свои бронирования, администратор - любые
func (s *Service) ListByUser(ctx context.Context, actor domain.Actor, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	s.logger.Info("ListByUser: fetching bookings for user=%d by user=%d", userID, actor.UserID)

	if !actor.CanManage(userID) {
		s.logger.Warn("ListByUser: user=%d cannot read bookings of user=%d", actor.UserID, userID)
		return nil, fmt.Errorf("%w: bookings of user=%d", domain.ErrForbidden, userID)
	}

	return s.list(ctx, models.ListFilter{UserID: &userID, Status: status}, "ListByUser")
}

// ListAll возвращает бронирования по фильтру
// Доступно только администратору
func (s *Service) ListAll(ctx context.Context, actor domain.Actor, filter models.ListFilter) ([]*domain.Booking, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("ListAll: user=%d is not an admin", actor.UserID)
		return nil, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	return s.list(ctx, filter, "ListAll")
}

// FindExpired возвращает бронирования в статусах active/extended с endTime < now
func (s *Service) FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	return s.find(ctx, domain.BookingFilter{
		Statuses:  domain.HoldingStatuses,
		EndBefore: &now,
	}, "FindExpired")
}

// ListHoldingByLot возвращает бронирования, удерживающие места парковки
func (s *Service) ListHoldingByLot(ctx context.Context, lotID string) ([]*domain.Booking, error) {
	return s.find(ctx, domain.BookingFilter{
		LotID:    &lotID,
		Statuses: domain.HoldingStatuses,
	}, "ListHoldingByLot")
}

// CountActiveByLot возвращает количество active/extended бронирований парковки
func (s *Service) CountActiveByLot(ctx context.Context, lotID string) (int, error) {
	count, err := s.bookingRepo.Count(ctx, domain.BookingFilter{
		LotID:    &lotID,
		Statuses: domain.HoldingStatuses,
	})
	if err != nil {
		s.logger.Error("CountActiveByLot: repository error for lot id=%s: %v", lotID, err)
		return 0, fmt.Errorf("%w: CountActiveByLot - repository error: %v", ErrInternal, err)
	}
	return count, nil
}

func (s *Service) list(ctx context.Context, filter models.ListFilter, op string) ([]*domain.Booking, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *filter.Status)
	}

	bookings, err := s.find(ctx, filter.ToDomainFilter(), op)
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: fetched %d bookings", op, len(bookings))
	return bookings, nil
}

func (s *Service) withBookingLock(ctx context.Context, id string, fn func() error) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, bookingLockPrefix+id)
	if err != nil {
		s.logger.Error("failed to lock booking id=%s: %v", id, err)
		return fmt.Errorf("%w: lock booking id=%s: %v", ErrInternal, id, err)
	}
	defer unlock()

	return fn()
}

func (s *Service) load(ctx context.Context, id, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, fmt.Errorf("%w: booking id=%s", domain.ErrNotFound, id)
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) save(ctx context.Context, booking *domain.Booking, op string) error {
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: booking id=%s", domain.ErrNotFound, booking.ID)
		}
		s.logger.Error("%s: failed to update booking id=%s: %v", op, booking.ID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func (s *Service) find(ctx context.Context, filter domain.BookingFilter, op string) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return bookings, nil
}
