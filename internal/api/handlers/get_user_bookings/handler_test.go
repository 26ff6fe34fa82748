package get_user_bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ListByUser(ctx context.Context, actor domain.Actor, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, actor, userID, status)
	if b, ok := args.Get(0).([]*domain.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, url string, actor domain.Actor) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/users/{userId}/bookings", h.Handle).Methods(http.MethodGet)

	r := httptest.NewRequest(http.MethodGet, url, nil)
	r = r.WithContext(middleware.WithActor(r.Context(), actor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_FiltersByStatus(t *testing.T) {
	actor := domain.Actor{UserID: 42, Role: domain.RoleUser}
	status := domain.StatusActive

	ledger := &mockLedger{}
	ledger.On("ListByUser", mock.Anything, actor, int64(42), &status).Return([]*domain.Booking{
		{ID: "b-1", UserID: 42, Status: domain.StatusActive},
	}, nil)

	w := serve(NewHandler(ledger, logger.NewNop()), "/users/42/bookings?status=active", actor)

	require.Equal(t, http.StatusOK, w.Code)
	var resp handlers.BookingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "b-1", resp.Bookings[0].ID)
}

func TestHandle_OtherUserForbidden(t *testing.T) {
	actor := domain.Actor{UserID: 7, Role: domain.RoleUser}

	ledger := &mockLedger{}
	ledger.On("ListByUser", mock.Anything, actor, int64(42), (*domain.BookingStatus)(nil)).
		Return(nil, domain.ErrForbidden)

	w := serve(NewHandler(ledger, logger.NewNop()), "/users/42/bookings", actor)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandle_InvalidStatus(t *testing.T) {
	ledger := &mockLedger{}
	w := serve(NewHandler(ledger, logger.NewNop()), "/users/42/bookings?status=pending", domain.Actor{UserID: 42})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
