package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
)

// LotStore хранилище парковок в памяти с той же семантикой, что и PostgreSQL репозиторий
type LotStore struct {
	mu   sync.RWMutex
	lots map[string]*domain.Lot
}

// NewLotStore создает пустое хранилище парковок
func NewLotStore() *LotStore {
	return &LotStore{lots: make(map[string]*domain.Lot)}
}

func (s *LotStore) Create(_ context.Context, lot *domain.Lot) (*domain.Lot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := lot.Clone()
	stored.RecomputeAvailable()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.lots[stored.ID] = stored

	return stored.Clone(), nil
}

func (s *LotStore) GetByID(_ context.Context, id string) (*domain.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lot, ok := s.lots[id]
	if !ok {
		return nil, lotRepo.ErrLotNotFound
	}
	return lot.Clone(), nil
}

func (s *LotStore) List(_ context.Context) ([]*domain.Lot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := make([]*domain.Lot, 0, len(s.lots))
	for _, lot := range s.lots {
		lots = append(lots, lot.Clone())
	}
	sort.Slice(lots, func(i, j int) bool {
		return lots[i].CreatedAt.After(lots[j].CreatedAt)
	})
	return lots, nil
}

func (s *LotStore) Update(_ context.Context, lot *domain.Lot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.lots[lot.ID]
	if !ok {
		return lotRepo.ErrLotNotFound
	}
	stored.Name = lot.Name
	stored.Address = lot.Address
	stored.PricePerHour = lot.PricePerHour
	stored.UpdatedAt = time.Now()
	return nil
}

func (s *LotStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lots[id]; !ok {
		return lotRepo.ErrLotNotFound
	}
	delete(s.lots, id)
	return nil
}

// UpdateSlotStatus условно переводит место from -> to и пересчитывает AvailableSlots под одной блокировкой
func (s *LotStore) UpdateSlotStatus(_ context.Context, lotID, slotNumber string, from, to domain.SlotStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot, ok := s.lots[lotID]
	if !ok {
		return lotRepo.ErrLotNotFound
	}

	slot, ok := lot.FindSlot(slotNumber)
	if !ok {
		return lotRepo.ErrSlotNotFound
	}
	if slot.Status != from {
		return lotRepo.ErrStatusConflict
	}

	slot.Status = to
	lot.RecomputeAvailable()
	lot.UpdatedAt = time.Now()
	return nil
}
