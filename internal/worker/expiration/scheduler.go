package expiration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_booking"
)

// DefaultBookingTimeout ограничение на обработку одного бронирования внутри прохода
const DefaultBookingTimeout = 10 * time.Second

// Scheduler периодически завершает просроченные бронирования
//
// Проход level-triggered: условие endTime < now сохраняется, пока бронирование не обработано,
// поэтому пропущенный запуск исправляется следующим. Повторные и пересекающиеся проходы безопасны.
type Scheduler struct {
	ledger         BookingLedger
	expirer        ExpireBookingUseCase
	reconciler     ReconcileSlotsUseCase
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	interval       time.Duration
	bookingTimeout time.Duration
	logger         Logger

	// Ручной запуск и таймер не выполняются одновременно
	mu sync.Mutex
}

// NewScheduler создает планировщик
func NewScheduler(ledger BookingLedger, expirer ExpireBookingUseCase, interval time.Duration, logger Logger) *Scheduler {
	if interval <= 0 {
		interval = domain.ExpirationInterval
	}
	return &Scheduler{
		ledger:         ledger,
		expirer:        expirer,
		timeProvider:   &RealTimeProvider{},
		interval:       interval,
		bookingTimeout: DefaultBookingTimeout,
		logger:         logger,
	}
}

// WithBookingTimeout ограничивает время обработки одного бронирования
func (s *Scheduler) WithBookingTimeout(d time.Duration) *Scheduler {
	if d > 0 {
		s.bookingTimeout = d
	}
	return s
}

// WithReconciler включает сверку инвентаря после каждого прохода
func (s *Scheduler) WithReconciler(r ReconcileSlotsUseCase) *Scheduler {
	s.reconciler = r
	return s
}

// WithMetrics подключает запись метрик
func (s *Scheduler) WithMetrics(m MetricsRecorder) *Scheduler {
	s.metrics = m
	return s
}

// WithTimeProvider подменяет источник времени
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Run выполняет проход сразу и затем каждые interval, пока ctx не отменен
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("ExpirationScheduler: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunExpirationSweep(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("ExpirationScheduler: sweep failed: %v", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("ExpirationScheduler: stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunExpirationSweep выполняет один проход синхронно
// Ошибка возвращается только если не удалось получить список просроченных бронирований
func (s *Scheduler) RunExpirationSweep(ctx context.Context) (*SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	now := s.timeProvider.Now()
	result := &SweepResult{StartedAt: now}

	expired, err := s.ledger.FindExpired(ctx, now)
	if err != nil {
		s.observe(started, true, result)
		return nil, fmt.Errorf("ExpirationSweep: find expired bookings: %w", err)
	}
	result.Found = len(expired)

	for _, booking := range expired {
		if ctx.Err() != nil {
			break
		}

		switch outcome, err := s.expireOne(ctx, booking, now); outcome {
		case expire_booking.OutcomeCompleted:
			result.Completed++
		case expire_booking.OutcomeSkipped:
			result.Skipped++
		default:
			result.Failed++
			s.logger.Error("ExpirationSweep: booking id=%s: %v", booking.ID, err)
		}
	}

	if s.reconciler != nil && ctx.Err() == nil {
		reconciled, err := s.reconciler.Execute(ctx)
		if err != nil {
			s.logger.Error("ExpirationSweep: reconcile slots: %v", err)
		} else {
			result.SlotsReconciled = reconciled.SlotsReleased
		}
	}

	if result.Found > 0 {
		s.logger.Info("ExpirationSweep: found=%d completed=%d skipped=%d failed=%d",
			result.Found, result.Completed, result.Skipped, result.Failed)
	}

	s.observe(started, false, result)
	return result, nil
}

func (s *Scheduler) expireOne(ctx context.Context, booking *domain.Booking, now time.Time) (expire_booking.Outcome, error) {
	bookingCtx, cancel := context.WithTimeout(ctx, s.bookingTimeout)
	defer cancel()

	outcome, err := s.expirer.Execute(bookingCtx, booking, now)
	if err != nil {
		return expire_booking.OutcomeFailed, err
	}
	return outcome, nil
}

func (s *Scheduler) observe(started time.Time, failed bool, result *SweepResult) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSweep(time.Since(started), failed, map[string]int{
		string(expire_booking.OutcomeCompleted): result.Completed,
		string(expire_booking.OutcomeSkipped):   result.Skipped,
		string(expire_booking.OutcomeFailed):    result.Failed,
	})
}
