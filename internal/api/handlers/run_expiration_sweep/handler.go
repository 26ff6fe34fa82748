package run_expiration_sweep

import (
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
)

type Handler struct {
	scheduler ExpirationScheduler
	logger    Logger
}

func NewHandler(scheduler ExpirationScheduler, logger Logger) *Handler {
	return &Handler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// Handle POST /api/v1/admin/expiration-sweep
// Запускает sweep вне расписания; параллельный вызов дождется окончания текущего
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.RunExpirationSweep(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/expiration-sweep - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/expiration-sweep - Sweep finished: found=%d, completed=%d, skipped=%d, failed=%d",
		result.Found, result.Completed, result.Skipped, result.Failed)
	handlers.RespondJSON(w, http.StatusOK, result)
}
