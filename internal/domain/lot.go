package domain

import "time"

// Lot парковка с фиксированным набором мест и почасовой ценой
type Lot struct {
	ID           string
	Name         string
	Address      string
	PricePerHour float64
	Slots        []Slot
	// Производное значение: количество мест в статусе available
	AvailableSlots int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindSlot ищет место по номеру
func (l *Lot) FindSlot(slotNumber string) (*Slot, bool) {
	for i := range l.Slots {
		if l.Slots[i].SlotNumber == slotNumber {
			return &l.Slots[i], true
		}
	}
	return nil, false
}

// CountAvailable пересчитывает количество свободных мест
func (l *Lot) CountAvailable() int {
	count := 0
	for i := range l.Slots {
		if l.Slots[i].IsAvailable() {
			count++
		}
	}
	return count
}

// RecomputeAvailable обновляет AvailableSlots по текущему состоянию мест
func (l *Lot) RecomputeAvailable() {
	l.AvailableSlots = l.CountAvailable()
}

// TotalSlots возвращает общее количество мест
func (l *Lot) TotalSlots() int {
	return len(l.Slots)
}

// Clone возвращает глубокую копию парковки
func (l *Lot) Clone() *Lot {
	c := *l
	c.Slots = make([]Slot, len(l.Slots))
	copy(c.Slots, l.Slots)
	return &c
}
