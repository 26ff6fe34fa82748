package get_lot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

func TestHandle_ReturnsSlots(t *testing.T) {
	ctx := context.Background()
	svc := inventory.NewService(memory.NewLotStore(), logger.NewNop())

	lot, err := svc.CreateLot(ctx, &models.CreateLotRequest{Name: "Center", Address: "Main st 1", PricePerHour: 5, TotalSlots: 3})
	require.NoError(t, err)
	require.NoError(t, svc.Reserve(ctx, lot.ID, "A002"))

	router := mux.NewRouter()
	router.HandleFunc("/lots/{lotId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lots/"+lot.ID, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.LotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalSlots)
	assert.Equal(t, 2, resp.AvailableSlots)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, handlers.SlotResponse{SlotNumber: "A002", Status: string(domain.SlotBooked)}, resp.Slots[1])
}

func TestHandle_NotFound(t *testing.T) {
	svc := inventory.NewService(memory.NewLotStore(), logger.NewNop())

	router := mux.NewRouter()
	router.HandleFunc("/lots/{lotId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lots/"+domain.NewID(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
