package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
)

// apiHandlers обработчики всех маршрутов /api/v1
type apiHandlers struct {
	listLots        http.HandlerFunc
	getLot          http.HandlerFunc
	createLot       http.HandlerFunc
	updateLot       http.HandlerFunc
	deleteLot       http.HandlerFunc
	createBooking   http.HandlerFunc
	getBooking      http.HandlerFunc
	extendBooking   http.HandlerFunc
	cancelBooking   http.HandlerFunc
	getUserBookings http.HandlerFunc
	listBookings    http.HandlerFunc
	runSweep        http.HandlerFunc
}

// registerRoutes регистрирует маршруты API
// POST /bookings и GET /bookings живут в разных подроутерах с общим префиксом:
// mux переходит к admin, если в protected совпал только путь
func registerRoutes(api *mux.Router, h apiHandlers) {
	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/lots", h.listLots).Methods(http.MethodGet)
	api.HandleFunc("/lots/{lotId}", h.getLot).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", h.createBooking).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", h.getBooking).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/extend", h.extendBooking).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/cancel", h.cancelBooking).Methods(http.MethodPut)
	protected.HandleFunc("/users/{userId}/bookings", h.getUserBookings).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	admin.HandleFunc("/lots", h.createLot).Methods(http.MethodPost)
	admin.HandleFunc("/lots/{lotId}", h.updateLot).Methods(http.MethodPatch)
	admin.HandleFunc("/lots/{lotId}", h.deleteLot).Methods(http.MethodDelete)
	admin.HandleFunc("/bookings", h.listBookings).Methods(http.MethodGet)
	admin.HandleFunc("/admin/expiration-sweep", h.runSweep).Methods(http.MethodPost)
}
