package extend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	led := ledger.NewService(memory.NewBookingStore(), keylock.New(), logger.NewNop())

	booking, err := led.Create(ctx, &models.Draft{
		UserID:        42,
		LotID:         domain.NewID(),
		SlotNumber:    "A001",
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		DurationHours: 2,
		PricePerHour:  50,
		TotalAmount:   100,
	})
	require.NoError(t, err)

	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.BookingEvent) bool {
		return e.Type == domain.EventBookingExtended && e.BookingID == booking.ID && e.TotalAmount == 250
	})).Return(nil).Once()

	uc := NewUseCase(led, publisher, logger.NewNop())

	extended, err := uc.Execute(ctx, &Request{
		BookingID:       booking.ID,
		Actor:           domain.Actor{UserID: 42},
		AdditionalHours: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusExtended, extended.Status)
	assert.Equal(t, 250.0, extended.TotalAmount)
	assert.Equal(t, 5, extended.DurationHours)
	assert.Equal(t, start.Add(5*time.Hour), extended.EndTime)

	publisher.AssertExpectations(t)
}

func TestUseCase_Execute_ErrorsPropagate(t *testing.T) {
	publisher := &mockPublisher{}
	uc := NewUseCase(ledger.NewService(memory.NewBookingStore(), keylock.New(), logger.NewNop()), publisher, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:       domain.NewID(),
		Actor:           domain.Actor{UserID: 42},
		AdditionalHours: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}
