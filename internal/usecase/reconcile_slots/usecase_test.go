package reconcile_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	invModels "github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

func TestUseCase_Execute_ReleasesOnlyOrphans(t *testing.T) {
	ctx := context.Background()
	inv := inventory.NewService(memory.NewLotStore(), logger.NewNop())
	led := ledger.NewService(memory.NewBookingStore(), keylock.New(), logger.NewNop())

	lot, err := inv.CreateLot(ctx, &invModels.CreateLotRequest{Name: "Central", Address: "Main st. 1", PricePerHour: 10, TotalSlots: 3})
	require.NoError(t, err)

	// A001 занято бронированием, A002 занято без бронирования, A003 свободно
	require.NoError(t, inv.Reserve(ctx, lot.ID, "A001"))
	require.NoError(t, inv.Reserve(ctx, lot.ID, "A002"))

	start := time.Now()
	_, err = led.Create(ctx, &models.Draft{
		UserID:        1,
		LotID:         lot.ID,
		SlotNumber:    "A001",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		DurationHours: 1,
		PricePerHour:  10,
		TotalAmount:   10,
	})
	require.NoError(t, err)

	uc := NewUseCase(inv, led, keylock.New(), logger.NewNop())

	result, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Result{LotsChecked: 1, SlotsReleased: 1}, result)

	got, err := inv.GetLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotBooked, got.Slots[0].Status)
	assert.Equal(t, domain.SlotAvailable, got.Slots[1].Status)
	assert.Equal(t, 2, got.AvailableSlots)

	// Повторный запуск ничего не меняет
	result, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SlotsReleased)
}
