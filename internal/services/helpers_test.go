package services

import (
	"context"
	"errors"
	"sync"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
)

var testGoal = domain.NutritionAmounts{Calories: 2281, Protein: 126, Fat: 63, Carbs: 302}

type fixedGoal struct {
	mu   sync.Mutex
	goal domain.NutritionAmounts
}

func (g *fixedGoal) CurrentGoal() domain.NutritionAmounts {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.goal
}

func (g *fixedGoal) set(n domain.NutritionAmounts) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.goal = n
}

// memRepo records saves and can be told to fail them.
type memRepo struct {
	mu      sync.Mutex
	logs    domain.LogCollection
	profile *domain.UserProfile
	saves   int
	failing bool
}

func (r *memRepo) LoadLogs(context.Context) (domain.LogCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logs == nil {
		return domain.LogCollection{}, nil
	}
	return r.logs, nil
}

func (r *memRepo) SaveLogs(_ context.Context, logs domain.LogCollection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return apperrors.NewPersistenceError(errors.New("disk full"), "save logs")
	}
	r.saves++
	r.logs = logs
	return nil
}

func (r *memRepo) LoadProfile(context.Context) (domain.UserProfile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profile == nil {
		return domain.UserProfile{}, false, nil
	}
	return *r.profile, true, nil
}

func (r *memRepo) SaveProfile(_ context.Context, p domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return apperrors.NewPersistenceError(errors.New("disk full"), "save profile")
	}
	r.saves++
	r.profile = &p
	return nil
}

func (r *memRepo) setFailing(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing = v
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func item(id string, kcal float64) domain.FoodItem {
	return domain.FoodItem{
		ID: id, Name: "item " + id, Portion: "1 serving",
		NutritionAmounts: domain.NutritionAmounts{Calories: kcal, Protein: 1, Fat: 1, Carbs: 1},
	}
}
