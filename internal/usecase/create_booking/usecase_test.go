package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/broker"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	invModels "github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

var t0 = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

type mockPaymentClient struct{ mock.Mock }

func (m *mockPaymentClient) CreatePaymentWithGracefulDegradation(ctx context.Context, req *paymentservice.CreatePaymentRequest) (*paymentservice.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentservice.Payment), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Create(ctx context.Context, draft *models.Draft) (*domain.Booking, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockLedger) AttachPayment(ctx context.Context, id string, paymentID string) error {
	return m.Called(ctx, id, paymentID).Error(0)
}

type fixture struct {
	inventory *inventory.Service
	ledger    *ledger.Service
	lot       *domain.Lot
	clock     *fixedClock
}

func newFixture(t *testing.T, totalSlots int) *fixture {
	t.Helper()

	clock := &fixedClock{now: t0}
	inv := inventory.NewService(memory.NewLotStore(), logger.NewNop())
	led := ledger.NewService(memory.NewBookingStore(), keylock.New(), logger.NewNop()).WithTimeProvider(clock)

	lot, err := inv.CreateLot(context.Background(), &invModels.CreateLotRequest{
		Name:         "Central",
		Address:      "Main st. 1",
		PricePerHour: 50,
		TotalSlots:   totalSlots,
	})
	require.NoError(t, err)

	return &fixture{inventory: inv, ledger: led, lot: lot, clock: clock}
}

func (f *fixture) useCase(bookings BookingLedger, payments PaymentServiceClient, publisher EventPublisher) *UseCase {
	return NewUseCase(f.inventory, bookings, keylock.New(), payments, publisher, logger.NewNop()).WithTimeProvider(f.clock)
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture(t, 1)
	vehicle := "  ab123c "

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == domain.EventBookingCreated
	})).Return(nil).Once()

	uc := f.useCase(f.ledger, nil, publisher)

	booking, err := uc.Execute(context.Background(), &Request{
		UserID:        42,
		LotID:         f.lot.ID,
		SlotNumber:    "A001",
		DurationHours: 2,
		VehicleNumber: &vehicle,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusActive, booking.Status)
	assert.Equal(t, t0, booking.StartTime)
	assert.Equal(t, t0.Add(2*time.Hour), booking.EndTime)
	assert.Equal(t, 100.0, booking.TotalAmount)
	assert.Equal(t, 50.0, booking.PricePerHour)
	require.NotNil(t, booking.VehicleNumber)
	assert.Equal(t, "AB123C", *booking.VehicleNumber)

	lot, err := f.inventory.GetLot(context.Background(), f.lot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotBooked, lot.Slots[0].Status)
	assert.Equal(t, 0, lot.AvailableSlots)

	publisher.AssertExpectations(t)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	f := newFixture(t, 1)
	uc := f.useCase(f.ledger, nil, broker.NopPublisher{})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"zero duration", Request{UserID: 1, LotID: f.lot.ID, SlotNumber: "A001"}, domain.ErrInvalidInput},
		{"negative duration", Request{UserID: 1, LotID: f.lot.ID, SlotNumber: "A001", DurationHours: -1}, domain.ErrInvalidInput},
		{"malformed lot id", Request{UserID: 1, LotID: "x", SlotNumber: "A001", DurationHours: 1}, domain.ErrInvalidInput},
		{"missing slot", Request{UserID: 1, LotID: f.lot.ID, DurationHours: 1}, domain.ErrInvalidInput},
		{"unknown lot", Request{UserID: 1, LotID: domain.NewID(), SlotNumber: "A001", DurationHours: 1}, domain.ErrNotFound},
		{"unknown slot", Request{UserID: 1, LotID: f.lot.ID, SlotNumber: "Z999", DurationHours: 1}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	lot, err := f.inventory.GetLot(context.Background(), f.lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lot.AvailableSlots)
}

func TestUseCase_Execute_LongDuration(t *testing.T) {
	f := newFixture(t, 1)
	uc := f.useCase(f.ledger, nil, broker.NopPublisher{})

	booking, err := uc.Execute(context.Background(), &Request{
		UserID:        1,
		LotID:         f.lot.ID,
		SlotNumber:    "A001",
		DurationHours: 24 * 30,
	})
	require.NoError(t, err)

	assert.Equal(t, t0.Add(24*30*time.Hour), booking.EndTime)
	assert.Equal(t, 50.0*24*30, booking.TotalAmount)
}

func TestUseCase_Execute_WaitsForLotLock(t *testing.T) {
	f := newFixture(t, 1)
	locks := keylock.New()
	uc := NewUseCase(f.inventory, f.ledger, locks, nil, broker.NopPublisher{}, logger.NewNop()).WithTimeProvider(f.clock)

	unlock, err := locks.Lock(context.Background(), domain.LotLockKey(f.lot.ID))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), &Request{
			UserID:        1,
			LotID:         f.lot.ID,
			SlotNumber:    "A001",
			DurationHours: 1,
		})
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("booking created while lot lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("booking not created after lot lock was released")
	}
}

func TestUseCase_Execute_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t, 1)
	uc := f.useCase(f.ledger, nil, broker.NopPublisher{})

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), &Request{
				UserID:        int64(i + 1),
				LotID:         f.lot.ID,
				SlotNumber:    "A001",
				DurationHours: 1,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	}
	assert.Equal(t, 1, succeeded)

	holding, err := f.ledger.ListHoldingByLot(context.Background(), f.lot.ID)
	require.NoError(t, err)
	assert.Len(t, holding, 1)
}

func TestUseCase_Execute_CompensatesFailedCreate(t *testing.T) {
	f := newFixture(t, 1)

	failing := &mockLedger{}
	failing.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

	uc := f.useCase(failing, nil, broker.NopPublisher{})

	booking, err := uc.Execute(context.Background(), &Request{
		UserID:        42,
		LotID:         f.lot.ID,
		SlotNumber:    "A001",
		DurationHours: 1,
	})
	require.Error(t, err)
	assert.Nil(t, booking)

	lot, err := f.inventory.GetLot(context.Background(), f.lot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailable, lot.Slots[0].Status)
	assert.Equal(t, 1, lot.AvailableSlots)

	failing.AssertExpectations(t)
}

func TestUseCase_Execute_AttachesPayment(t *testing.T) {
	f := newFixture(t, 1)

	payments := &mockPaymentClient{}
	payments.On("CreatePaymentWithGracefulDegradation", mock.Anything, mock.MatchedBy(func(r *paymentservice.CreatePaymentRequest) bool {
		return r.UserID == 42 && r.Amount == 150
	})).Return(&paymentservice.Payment{ID: "pay-1"}, nil).Once()

	uc := f.useCase(f.ledger, payments, broker.NopPublisher{})

	booking, err := uc.Execute(context.Background(), &Request{
		UserID:        42,
		LotID:         f.lot.ID,
		SlotNumber:    "A001",
		DurationHours: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, booking.PaymentID)
	assert.Equal(t, "pay-1", *booking.PaymentID)

	stored, err := f.ledger.GetByID(context.Background(), booking.ID, domain.Actor{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", *stored.PaymentID)

	payments.AssertExpectations(t)
}

func TestUseCase_Execute_PaymentAndBrokerFailuresDoNotFailBooking(t *testing.T) {
	f := newFixture(t, 1)

	payments := &mockPaymentClient{}
	payments.On("CreatePaymentWithGracefulDegradation", mock.Anything, mock.Anything).
		Return(nil, paymentservice.ErrServiceDegraded)

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	uc := f.useCase(f.ledger, payments, publisher)

	booking, err := uc.Execute(context.Background(), &Request{
		UserID:        42,
		LotID:         f.lot.ID,
		SlotNumber:    "A001",
		DurationHours: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, booking.PaymentID)
	assert.Equal(t, domain.StatusActive, booking.Status)
}
