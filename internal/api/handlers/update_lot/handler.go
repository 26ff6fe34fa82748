package update_lot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLot         = "некорректные параметры парковки"
	msgNotFound           = "парковка не найдена"
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

// Handle PATCH /api/v1/lots/{lotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID := mux.Vars(r)["lotId"]

	var req UpdateLotRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PATCH /lots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	lot, err := h.inventory.UpdateLot(r.Context(), lotID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PATCH /lots/{id} - Invalid lot update: lot_id=%s, error=%v", lotID, err)
			handlers.RespondBadRequest(w, msgInvalidLot)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PATCH /lots/{id} - Lot not found: lot_id=%s", lotID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /lots/{id} - Failed to update lot: lot_id=%s, error=%v", lotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /lots/{id} - Lot updated successfully: lot_id=%s", lotID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainLot(lot, false))
}
