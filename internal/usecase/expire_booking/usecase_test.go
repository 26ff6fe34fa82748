package expire_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/broker"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) MarkCompleted(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) Release(ctx context.Context, lotID, slotNumber string) error {
	return m.Called(ctx, lotID, slotNumber).Error(0)
}

var now = time.Date(2025, 10, 15, 12, 1, 0, 0, time.UTC)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:         domain.NewID(),
		LotID:      domain.NewID(),
		SlotNumber: "A001",
		Status:     domain.StatusActive,
		EndTime:    now.Add(-time.Minute),
	}
}

func TestUseCase_Execute_Completes(t *testing.T) {
	b := testBooking()
	led := &mockLedger{}
	inv := &mockInventory{}
	led.On("MarkCompleted", mock.Anything, b.ID, now).Return(true, nil).Once()
	inv.On("Release", mock.Anything, b.LotID, "A001").Return(nil).Once()

	uc := NewUseCase(led, inv, keylock.New(), broker.NopPublisher{}, logger.NewNop())

	outcome, err := uc.Execute(context.Background(), b, now)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome)

	led.AssertExpectations(t)
	inv.AssertExpectations(t)
}

func TestUseCase_Execute_SkipsHandledBookings(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		err       error
	}{
		{"already terminal", false, nil},
		{"extended after fetch", false, errors.Join(domain.ErrInvalidState, errors.New("ends later"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBooking()
			led := &mockLedger{}
			inv := &mockInventory{}
			led.On("MarkCompleted", mock.Anything, b.ID, now).Return(tt.completed, tt.err).Once()

			uc := NewUseCase(led, inv, keylock.New(), broker.NopPublisher{}, logger.NewNop())

			outcome, err := uc.Execute(context.Background(), b, now)
			require.NoError(t, err)
			assert.Equal(t, OutcomeSkipped, outcome)

			// Чужое место не трогаем
			inv.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUseCase_Execute_Failures(t *testing.T) {
	b := testBooking()

	led := &mockLedger{}
	inv := &mockInventory{}
	led.On("MarkCompleted", mock.Anything, b.ID, now).Return(false, errors.New("db timeout")).Once()

	uc := NewUseCase(led, inv, keylock.New(), broker.NopPublisher{}, logger.NewNop())
	outcome, err := uc.Execute(context.Background(), b, now)
	assert.Error(t, err)
	assert.Equal(t, OutcomeFailed, outcome)

	led = &mockLedger{}
	led.On("MarkCompleted", mock.Anything, b.ID, now).Return(true, nil).Once()
	inv.On("Release", mock.Anything, b.LotID, "A001").Return(domain.ErrNotFound).Once()

	uc = NewUseCase(led, inv, keylock.New(), broker.NopPublisher{}, logger.NewNop())
	outcome, err = uc.Execute(context.Background(), b, now)
	assert.ErrorIs(t, err, ErrReleaseFailed)
	assert.Equal(t, OutcomeFailed, outcome)
}
