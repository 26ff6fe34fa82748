package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger/models"
)

const (
	msgInvalidQuery  = "некорректные параметры фильтра"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	ledger BookingLedger
	logger Logger
}

func NewHandler(ledger BookingLedger, logger Logger) *Handler {
	return &Handler{
		ledger: ledger,
		logger: logger,
	}
}

// Handle GET /api/v1/bookings?userId=&lotId=&status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	bookings, err := h.ledger.ListAll(r.Context(), actor, filter)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.logger.Warn("GET /bookings - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /bookings - Failed to list bookings: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: count=%d", len(bookings))
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBookings(bookings))
}

func parseFilter(r *http.Request) (models.ListFilter, error) {
	var filter models.ListFilter

	userID, err := handlers.ParseInt64Query(r, "userId")
	if err != nil {
		return filter, err
	}
	filter.UserID = userID

	status, err := handlers.ParseStatusQuery(r)
	if err != nil {
		return filter, err
	}
	filter.Status = status

	if lotID := r.URL.Query().Get("lotId"); lotID != "" {
		filter.LotID = &lotID
	}

	return filter, nil
}
