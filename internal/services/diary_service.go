package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"github.com/vladimiradmaev/nurture-diary/internal/nutrition"
	"github.com/vladimiradmaev/nurture-diary/internal/utils"
)

// DiaryService owns the log collection. Every mutation is saved before it
// becomes visible, so memory never runs ahead of storage.
type DiaryService struct {
	mu    sync.RWMutex
	repo  domain.LogRepository
	goals domain.GoalProvider
	logs  domain.LogCollection
}

func NewDiaryService(ctx context.Context, repo domain.LogRepository, goals domain.GoalProvider) (*DiaryService, error) {
	logs, err := repo.LoadLogs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Diary loaded", "days", len(logs))
	return &DiaryService{repo: repo, goals: goals, logs: logs}, nil
}

// GetLog returns the stored log of date or, when there is none, an empty one
// carrying the current goal. The synthesized log is not stored.
func (s *DiaryService) GetLog(date string) (domain.LogLookup, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return domain.LogLookup{}, apperrors.NewValidationError(err.Error())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(date), nil
}

func (s *DiaryService) lookup(date string) domain.LogLookup {
	if l, ok := s.logs[date]; ok {
		return domain.LogLookup{Log: l.Clone(), Source: domain.LogFound}
	}
	return domain.LogLookup{
		Log:    domain.NewDailyLog(date, s.goals.CurrentGoal()),
		Source: domain.LogSynthesized,
	}
}

// CheckCapacity fails when the meal already holds MaxItemsPerMeal entries.
func (s *DiaryService) CheckCapacity(date string, meal domain.MealType) error {
	if err := validateSlot(date, meal); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return checkCapacity(s.lookup(date).Log, meal)
}

func checkCapacity(l domain.DailyLog, meal domain.MealType) error {
	if len(l.Meals[meal]) >= domain.MaxItemsPerMeal {
		return apperrors.NewCapacityError(string(meal), domain.MaxItemsPerMeal)
	}
	return nil
}

func validateSlot(date string, meal domain.MealType) error {
	if _, err := utils.ParseDate(date); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if !meal.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown meal %q", meal))
	}
	return nil
}

// AddItem appends item to the meal and refreshes the day's goal snapshot.
func (s *DiaryService) AddItem(ctx context.Context, date string, meal domain.MealType, item domain.FoodItem) error {
	if err := validateSlot(date, meal); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.lookup(date).Log
	if err := checkCapacity(l, meal); err != nil {
		return err
	}
	l.Meals[meal] = append(l.Meals[meal], item)
	l.Goals = s.goals.CurrentGoal()

	if err := s.commit(ctx, date, l); err != nil {
		return err
	}
	logger.Info("Item added", "date", date, "meal", meal, "item_id", item.ID, "name", item.Name)
	return nil
}

// DeleteItem removes the first item with id from the meal. The goal snapshot
// is left alone, and a missing id is a no-op without a write.
func (s *DiaryService) DeleteItem(ctx context.Context, date string, meal domain.MealType, id string) error {
	if err := validateSlot(date, meal); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.logs[date]
	if !ok {
		return nil
	}
	l := stored.Clone()
	items := l.Meals[meal]
	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	l.Meals[meal] = append(items[:idx:idx], items[idx+1:]...)

	if err := s.commit(ctx, date, l); err != nil {
		return err
	}
	logger.Info("Item deleted", "date", date, "meal", meal, "item_id", id)
	return nil
}

// commit persists the collection with l in place and only then swaps it in.
func (s *DiaryService) commit(ctx context.Context, date string, l domain.DailyLog) error {
	next := s.logs.With(date, l)
	if err := s.repo.SaveLogs(ctx, next); err != nil {
		return err
	}
	s.logs = next
	return nil
}

// Summary is the day as presented: log, totals and the current goal.
func (s *DiaryService) Summary(date string) (domain.DaySummary, error) {
	lookup, err := s.GetLog(date)
	if err != nil {
		return domain.DaySummary{}, err
	}
	return nutrition.Summarize(lookup, s.goals.CurrentGoal()), nil
}

// Dates lists the days that have a stored log, oldest first.
func (s *DiaryService) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dates := make([]string, 0, len(s.logs))
	for d := range s.logs {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
