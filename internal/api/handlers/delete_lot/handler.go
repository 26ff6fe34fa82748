package delete_lot

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	deleteLot "github.com/m04kA/SMC-ParkingService/internal/usecase/delete_lot"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidLotID    = "некорректный ID парковки"
	msgNotFound        = "парковка не найдена"
	msgForbidden       = "доступ запрещен"
	msgHasHoldBookings = "на парковке есть активные бронирования"
)

type Handler struct {
	useCase DeleteLotUseCase
	logger  Logger
}

func NewHandler(useCase DeleteLotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/lots/{lotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lotID := mux.Vars(r)["lotId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("DELETE /lots/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err := h.useCase.Execute(r.Context(), &deleteLot.Request{LotID: lotID, Actor: actor})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("DELETE /lots/{id} - Invalid lot ID: %s", lotID)
			handlers.RespondBadRequest(w, msgInvalidLotID)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("DELETE /lots/{id} - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("DELETE /lots/{id} - Lot not found: lot_id=%s", lotID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidState):
			h.logger.Warn("DELETE /lots/{id} - Lot has holding bookings: lot_id=%s", lotID)
			handlers.RespondConflict(w, msgHasHoldBookings)

		default:
			h.logger.Error("DELETE /lots/{id} - Failed to delete lot: lot_id=%s, error=%v", lotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /lots/{id} - Lot deleted successfully: lot_id=%s", lotID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
