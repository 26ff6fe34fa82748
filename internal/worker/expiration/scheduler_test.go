package expiration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/broker"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	invModels "github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/cancel_booking"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/expire_booking"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/reconcile_slots"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var t0 = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

type env struct {
	clock     *fakeClock
	inventory *inventory.Service
	ledger    *ledger.Service
	create    *create_booking.UseCase
	cancel    *cancel_booking.UseCase
	scheduler *Scheduler
	lot       *domain.Lot
}

func newEnv(t *testing.T, totalSlots int) *env {
	t.Helper()

	clock := &fakeClock{now: t0}
	locks := keylock.New()
	log := logger.NewNop()

	inv := inventory.NewService(memory.NewLotStore(), log)
	led := ledger.NewService(memory.NewBookingStore(), locks, log).WithTimeProvider(clock)
	expirer := expire_booking.NewUseCase(led, inv, locks, broker.NopPublisher{}, log)

	lot, err := inv.CreateLot(context.Background(), &invModels.CreateLotRequest{
		Name:         "Central",
		Address:      "Main st. 1",
		PricePerHour: 50,
		TotalSlots:   totalSlots,
	})
	require.NoError(t, err)

	return &env{
		clock:     clock,
		inventory: inv,
		ledger:    led,
		create:    create_booking.NewUseCase(inv, led, locks, nil, broker.NopPublisher{}, log).WithTimeProvider(clock),
		cancel:    cancel_booking.NewUseCase(led, inv, locks, broker.NopPublisher{}, log),
		scheduler: NewScheduler(led, expirer, time.Minute, log).WithTimeProvider(clock),
		lot:       lot,
	}
}

func (e *env) book(t *testing.T, slot string, hours int) *domain.Booking {
	t.Helper()
	b, err := e.create.Execute(context.Background(), &create_booking.Request{
		UserID:        42,
		LotID:         e.lot.ID,
		SlotNumber:    slot,
		DurationHours: hours,
	})
	require.NoError(t, err)
	return b
}

func (e *env) lotState(t *testing.T) *domain.Lot {
	t.Helper()
	lot, err := e.inventory.GetLot(context.Background(), e.lot.ID)
	require.NoError(t, err)
	return lot
}

func (e *env) booking(t *testing.T, id string) *domain.Booking {
	t.Helper()
	b, err := e.ledger.GetByID(context.Background(), id, domain.Actor{UserID: 42})
	require.NoError(t, err)
	return b
}

func TestSweep_CompletesExpiredBooking(t *testing.T) {
	e := newEnv(t, 1)

	b := e.book(t, "A001", 2)
	assert.Equal(t, domain.StatusActive, b.Status)
	assert.Equal(t, domain.SlotBooked, e.lotState(t).Slots[0].Status)
	assert.Equal(t, 0, e.lotState(t).AvailableSlots)

	// До истечения проход ничего не делает
	e.clock.Set(t0.Add(time.Hour))
	result, err := e.scheduler.RunExpirationSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Found)

	e.clock.Set(t0.Add(2*time.Hour + time.Minute))
	result, err = e.scheduler.RunExpirationSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Found)
	assert.Equal(t, 1, result.Completed)

	assert.Equal(t, domain.StatusCompleted, e.booking(t, b.ID).Status)
	lot := e.lotState(t)
	assert.Equal(t, domain.SlotAvailable, lot.Slots[0].Status)
	assert.Equal(t, 1, lot.AvailableSlots)
}

func TestSweep_Idempotent(t *testing.T) {
	e := newEnv(t, 2)
	first := e.book(t, "A001", 1)
	second := e.book(t, "A002", 3)

	e.clock.Set(t0.Add(2 * time.Hour))

	_, err := e.scheduler.RunExpirationSweep(context.Background())
	require.NoError(t, err)
	lotAfterOne := e.lotState(t)

	result, err := e.scheduler.RunExpirationSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Found)

	lotAfterTwo := e.lotState(t)
	assert.Equal(t, lotAfterOne.Slots, lotAfterTwo.Slots)
	assert.Equal(t, lotAfterOne.AvailableSlots, lotAfterTwo.AvailableSlots)
	assert.Equal(t, domain.StatusCompleted, e.booking(t, first.ID).Status)
	assert.Equal(t, domain.StatusActive, e.booking(t, second.ID).Status)
}

func TestSweep_DoesNotReleaseRebookedSlot(t *testing.T) {
	e := newEnv(t, 1)
	old := e.book(t, "A001", 1)

	e.clock.Set(t0.Add(2 * time.Hour))
	expired, err := e.ledger.FindExpired(context.Background(), e.clock.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)

	// Пользователь успел отменить, место занял другой
	_, err = e.cancel.Execute(context.Background(), &cancel_booking.Request{BookingID: old.ID, Actor: domain.Actor{UserID: 42}})
	require.NoError(t, err)
	fresh := e.book(t, "A001", 1)

	outcome, err := e.scheduler.expireOne(context.Background(), expired[0], e.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, expire_booking.OutcomeSkipped, outcome)

	assert.Equal(t, domain.StatusActive, e.booking(t, fresh.ID).Status)
	assert.Equal(t, domain.SlotBooked, e.lotState(t).Slots[0].Status)
}

func TestSweep_ExtendedAfterFetchIsSkipped(t *testing.T) {
	e := newEnv(t, 1)
	b := e.book(t, "A001", 1)

	e.clock.Set(t0.Add(90 * time.Minute))
	expired, err := e.ledger.FindExpired(context.Background(), e.clock.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)

	_, err = e.ledger.Extend(context.Background(), b.ID, domain.Actor{UserID: 42}, 2)
	require.NoError(t, err)

	outcome, err := e.scheduler.expireOne(context.Background(), expired[0], e.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, expire_booking.OutcomeSkipped, outcome)
	assert.Equal(t, domain.StatusExtended, e.booking(t, b.ID).Status)
	assert.Equal(t, domain.SlotBooked, e.lotState(t).Slots[0].Status)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) FindExpired(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type expirerFunc func(ctx context.Context, b *domain.Booking, now time.Time) (expire_booking.Outcome, error)

func (f expirerFunc) Execute(ctx context.Context, b *domain.Booking, now time.Time) (expire_booking.Outcome, error) {
	return f(ctx, b, now)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) ObserveSweep(duration time.Duration, failed bool, outcomes map[string]int) {
	m.Called(failed, outcomes)
}

func TestSweep_LogAndContinue(t *testing.T) {
	bookings := []*domain.Booking{{ID: "slow"}, {ID: "broken"}, {ID: "ok"}}
	led := &mockLedger{}
	led.On("FindExpired", mock.Anything, t0).Return(bookings, nil)

	expirer := expirerFunc(func(ctx context.Context, b *domain.Booking, _ time.Time) (expire_booking.Outcome, error) {
		switch b.ID {
		case "slow":
			<-ctx.Done()
			return expire_booking.OutcomeFailed, ctx.Err()
		case "broken":
			return expire_booking.OutcomeFailed, errors.New("db timeout")
		default:
			return expire_booking.OutcomeCompleted, nil
		}
	})

	metrics := &mockMetrics{}
	metrics.On("ObserveSweep", false, map[string]int{"completed": 1, "skipped": 0, "failed": 2}).Once()

	s := NewScheduler(led, expirer, time.Minute, logger.NewNop()).
		WithTimeProvider(&fakeClock{now: t0}).
		WithBookingTimeout(20 * time.Millisecond).
		WithMetrics(metrics)

	result, err := s.RunExpirationSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Found)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 2, result.Failed)
	metrics.AssertExpectations(t)
}

func TestSweep_FindFailure(t *testing.T) {
	led := &mockLedger{}
	led.On("FindExpired", mock.Anything, t0).Return(nil, errors.New("connection refused"))

	metrics := &mockMetrics{}
	metrics.On("ObserveSweep", true, mock.Anything).Once()

	s := NewScheduler(led, expirerFunc(nil), time.Minute, logger.NewNop()).
		WithTimeProvider(&fakeClock{now: t0}).
		WithMetrics(metrics)

	_, err := s.RunExpirationSweep(context.Background())
	assert.Error(t, err)
	metrics.AssertExpectations(t)
}

type reconcilerFunc func(ctx context.Context) (*reconcile_slots.Result, error)

func (f reconcilerFunc) Execute(ctx context.Context) (*reconcile_slots.Result, error) { return f(ctx) }

func TestSweep_RunsReconciler(t *testing.T) {
	led := &mockLedger{}
	led.On("FindExpired", mock.Anything, t0).Return([]*domain.Booking{}, nil)

	s := NewScheduler(led, expirerFunc(nil), time.Minute, logger.NewNop()).
		WithTimeProvider(&fakeClock{now: t0}).
		WithReconciler(reconcilerFunc(func(context.Context) (*reconcile_slots.Result, error) {
			return &reconcile_slots.Result{LotsChecked: 2, SlotsReleased: 1}, nil
		}))

	result, err := s.RunExpirationSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SlotsReconciled)
}

func TestRun_SweepsImmediatelyAndStops(t *testing.T) {
	var calls atomic.Int32
	led := &mockLedger{}
	led.On("FindExpired", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return([]*domain.Booking{}, nil)

	s := NewScheduler(led, expirerFunc(nil), time.Hour, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
