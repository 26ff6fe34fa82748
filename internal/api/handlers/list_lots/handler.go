package list_lots

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
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

// Handle GET /api/v1/lots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lots, err := h.inventory.ListLots(r.Context())
	if err != nil {
		h.logger.Error("GET /lots - Failed to list lots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /lots - Lots retrieved successfully: count=%d", len(lots))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainLots(lots))
}
