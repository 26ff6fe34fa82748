package get_lot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	msgInvalidLotID = "некорректный ID парковки"
	msgNotFound     = "парковка не найдена"
)

type Handler struct {
	inventory SlotInventory
	logger    Logger
}

func NewHandler(inventory SlotInventory, logger Logger) *Handler {
	return &Handler{
		inventory: inventory,
		logger:    logger,
	}
}

// Handle GET /api/v1/lots/{lotId}
// Ответ содержит все места со статусами, по нему клиент выбирает свободное место
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID := mux.Vars(r)["lotId"]

	lot, err := h.inventory.GetLot(r.Context(), lotID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /lots/{id} - Invalid lot ID: %s", lotID)
			handlers.RespondBadRequest(w, msgInvalidLotID)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /lots/{id} - Lot not found: lot_id=%s", lotID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /lots/{id} - Failed to get lot: lot_id=%s, error=%v", lotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lots/{id} - Lot retrieved successfully: lot_id=%s, available=%d", lotID, lot.AvailableSlots)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainLot(lot, true))
}
