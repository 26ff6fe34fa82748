package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-ParkingService/internal/usecase/cancel_booking"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *cancelBooking.Request) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if b, ok := args.Get(0).(*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingOperation(string, string) {}

// serve прогоняет запрос через mux, чтобы заполнить {bookingId}
func serve(h *Handler, actor domain.Actor) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/bookings/{bookingId}/cancel", h.Handle).Methods(http.MethodPut)

	r := httptest.NewRequest(http.MethodPut, "/bookings/b-1/cancel", nil)
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle(t *testing.T) {
	owner := domain.Actor{UserID: 42, Role: domain.RoleUser}

	tests := []struct {
		name       string
		booking    *domain.Booking
		err        error
		wantStatus int
	}{
		{"cancelled", &domain.Booking{ID: "b-1", Status: domain.StatusCancelled}, nil, http.StatusOK},
		{"already terminal", nil, domain.ErrAlreadyTerminal, http.StatusConflict},
		{"forbidden", nil, domain.ErrForbidden, http.StatusForbidden},
		{"not found", nil, domain.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, &cancelBooking.Request{BookingID: "b-1", Actor: owner}).
				Return(tt.booking, tt.err)

			w := serve(NewHandler(uc, nopMetrics{}, logger.NewNop()), owner)

			assert.Equal(t, tt.wantStatus, w.Code)
			uc.AssertExpectations(t)
		})
	}
}
