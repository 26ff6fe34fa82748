package handlers

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// BookingResponse HTTP модель бронирования
type BookingResponse struct {
	ID            string     `json:"id"`
	UserID        int64      `json:"userId"`
	LotID         string     `json:"lotId"`
	SlotNumber    string     `json:"slotNumber"`
	VehicleNumber *string    `json:"vehicleNumber,omitempty"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	DurationHours int        `json:"durationHours"`
	PricePerHour  float64    `json:"pricePerHour"`
	TotalAmount   float64    `json:"totalAmount"`
	Status        string     `json:"status"`
	PaymentID     *string    `json:"paymentId,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

type SlotResponse struct {
	SlotNumber string `json:"slotNumber"`
	Status     string `json:"status"`
}

// LotResponse HTTP модель парковки со списком мест
type LotResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Address        string         `json:"address"`
	PricePerHour   float64        `json:"pricePerHour"`
	TotalSlots     int            `json:"totalSlots"`
	AvailableSlots int            `json:"availableSlots"`
	Slots          []SlotResponse `json:"slots,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type LotListResponse struct {
	Lots  []*LotResponse `json:"lots"`
	Total int            `json:"total"`
}

func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		LotID:         b.LotID,
		SlotNumber:    b.SlotNumber,
		VehicleNumber: b.VehicleNumber,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		DurationHours: b.DurationHours,
		PricePerHour:  b.PricePerHour,
		TotalAmount:   b.TotalAmount,
		Status:        string(b.Status),
		PaymentID:     b.PaymentID,
		CancelledAt:   b.CancelledAt,
		CompletedAt:   b.CompletedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}

// FromDomainLot конвертирует парковку; withSlots=false отдает только счетчики
func FromDomainLot(lot *domain.Lot, withSlots bool) *LotResponse {
	resp := &LotResponse{
		ID:             lot.ID,
		Name:           lot.Name,
		Address:        lot.Address,
		PricePerHour:   lot.PricePerHour,
		TotalSlots:     lot.TotalSlots(),
		AvailableSlots: lot.AvailableSlots,
		CreatedAt:      lot.CreatedAt,
		UpdatedAt:      lot.UpdatedAt,
	}
	if withSlots {
		resp.Slots = make([]SlotResponse, 0, len(lot.Slots))
		for _, s := range lot.Slots {
			resp.Slots = append(resp.Slots, SlotResponse{SlotNumber: s.SlotNumber, Status: string(s.Status)})
		}
	}
	return resp
}

func FromDomainLots(lots []*domain.Lot) *LotListResponse {
	resp := &LotListResponse{
		Lots:  make([]*LotResponse, 0, len(lots)),
		Total: len(lots),
	}
	for _, lot := range lots {
		resp.Lots = append(resp.Lots, FromDomainLot(lot, false))
	}
	return resp
}
