package domain

import "fmt"

// SlotStatus статус парковочного места
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Slot парковочное место с уникальным в пределах парковки номером
type Slot struct {
	SlotNumber string
	Status     SlotStatus
}

// IsAvailable возвращает true, если место свободно
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// SlotNumberFor формирует номер места по порядковому номеру: 1 -> "A001"
func SlotNumberFor(index int) string {
	return fmt.Sprintf("%s%03d", SlotNumberPrefix, index)
}

// GenerateSlots создает count свободных мест A001..Annn
func GenerateSlots(count int) []Slot {
	slots := make([]Slot, 0, count)
	for i := 1; i <= count; i++ {
		slots = append(slots, Slot{SlotNumber: SlotNumberFor(i), Status: SlotAvailable})
	}
	return slots
}
