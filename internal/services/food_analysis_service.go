package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// FoodAnalysisService turns user input into diary entries through the resolver.
type FoodAnalysisService struct {
	resolver domain.FoodResolver
	diary    *DiaryService
	slots    *MealSlots
}

func NewFoodAnalysisService(resolver domain.FoodResolver, diary *DiaryService) *FoodAnalysisService {
	return &FoodAnalysisService{
		resolver: resolver,
		diary:    diary,
		slots:    NewMealSlots(),
	}
}

// AddFromText resolves a typed description and adds the result to the meal.
func (s *FoodAnalysisService) AddFromText(ctx context.Context, date string, meal domain.MealType, text string) (*domain.FoodItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("food description is empty")
	}
	return s.add(ctx, date, meal, domain.FoodInput{Text: text})
}

// AddFromImage resolves a photo and adds the result, with the photo attached, to the meal.
func (s *FoodAnalysisService) AddFromImage(ctx context.Context, date string, meal domain.MealType, data []byte, mimeType string) (*domain.FoodItem, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("image is empty")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, apperrors.NewValidationError("unsupported image type " + mimeType)
	}
	return s.add(ctx, date, meal, domain.FoodInput{Image: data, MIMEType: mimeType})
}

func (s *FoodAnalysisService) IsBusy(date string, meal domain.MealType) bool {
	return s.slots.State(domain.MealSlot{Date: date, Meal: meal}) == domain.SlotInFlight
}

func (s *FoodAnalysisService) add(ctx context.Context, date string, meal domain.MealType, in domain.FoodInput) (*domain.FoodItem, error) {
	if err := s.diary.CheckCapacity(date, meal); err != nil {
		return nil, err
	}

	slot := domain.MealSlot{Date: date, Meal: meal}
	if !s.slots.Begin(slot) {
		return nil, apperrors.NewBusyError(date, string(meal))
	}
	defer s.slots.End(slot)

	log := logger.WithFields("date", date, "meal", meal, "image", in.IsImage())
	log.Info("Resolving food entry")

	estimate, err := s.resolver.Resolve(ctx, in)
	if err != nil {
		log.Warn("Food entry not resolved", "error", err)
		return nil, err
	}

	item := domain.FoodItem{
		ID:               uuid.New().String(),
		Name:             estimate.Name,
		Portion:          estimate.Portion,
		NutritionAmounts: estimate.NutritionAmounts,
	}
	if in.IsImage() {
		item.ImageURL = dataURL(in.MIMEType, in.Image)
	}

	if err := s.diary.AddItem(ctx, date, meal, item); err != nil {
		return nil, err
	}
	return &item, nil
}
