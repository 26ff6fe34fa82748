package create_lot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLot         = "некорректные параметры парковки"
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

// Handle POST /api/v1/lots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateLotRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /lots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	lot, err := h.inventory.CreateLot(r.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.logger.Warn("POST /lots - Invalid lot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLot)
			return
		}
		h.logger.Error("POST /lots - Failed to create lot: name=%q, error=%v", req.Name, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /lots - Lot created successfully: lot_id=%s, total_slots=%d", lot.ID, lot.TotalSlots())
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromDomainLot(lot, true))
}
