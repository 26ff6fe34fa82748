package extend_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	extendBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidHours       = "некорректные параметры продления"
	msgCannotExtend       = "бронирование не может быть продлено"
)

type Handler struct {
	useCase ExtendBookingUseCase
	metrics OperationMetrics
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, metrics OperationMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/extend - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), &extendBooking.Request{
		BookingID:       bookingID,
		Actor:           actor,
		AdditionalHours: req.AdditionalHours,
	})
	h.metrics.IncBookingOperation("extend", handlers.OperationResult(err))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PUT /bookings/{id}/extend - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PUT /bookings/{id}/extend - Access denied: booking_id=%s, user_id=%d", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id}/extend - Invalid hours: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, domain.ErrInvalidState):
			h.logger.Warn("PUT /bookings/{id}/extend - Cannot extend: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgCannotExtend)

		default:
			h.logger.Error("PUT /bookings/{id}/extend - Failed to extend booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/extend - Booking extended successfully: booking_id=%s, end_time=%s",
		booking.ID, booking.EndTime)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBooking(booking))
}
