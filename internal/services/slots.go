package services

import (
	"sync"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
)

// MealSlots records which meal sections have a resolver call outstanding.
type MealSlots struct {
	mu       sync.Mutex
	inFlight map[domain.MealSlot]struct{}
}

func NewMealSlots() *MealSlots {
	return &MealSlots{inFlight: make(map[domain.MealSlot]struct{})}
}

// Begin moves slot from Idle to InFlight. It reports false, and changes
// nothing, when the slot is already in flight.
func (m *MealSlots) Begin(slot domain.MealSlot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inFlight[slot]; busy {
		return false
	}
	m.inFlight[slot] = struct{}{}
	return true
}

// End returns slot to Idle.
func (m *MealSlots) End(slot domain.MealSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, slot)
}

func (m *MealSlots) State(slot domain.MealSlot) domain.SlotState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inFlight[slot]; busy {
		return domain.SlotInFlight
	}
	return domain.SlotIdle
}
