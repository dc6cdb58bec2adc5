package interfaces

import (
	"context"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	"github.com/vladimiradmaev/nurture-diary/internal/nutrition"
)

// UserServiceInterface defines the contract for profile operations
type UserServiceInterface interface {
	Profile() domain.UserProfile
	UpdateProfile(ctx context.Context, p domain.UserProfile) error
	CurrentGoal() domain.NutritionAmounts
	BMI() (float64, nutrition.BMICategory)
}

// DiaryServiceInterface defines the contract for reading and editing the diary
type DiaryServiceInterface interface {
	GetLog(date string) (domain.LogLookup, error)
	CheckCapacity(date string, meal domain.MealType) error
	DeleteItem(ctx context.Context, date string, meal domain.MealType, id string) error
	Summary(date string) (domain.DaySummary, error)
	Dates() []string
}

// FoodAnalysisServiceInterface defines the contract for adding entries through the resolver
type FoodAnalysisServiceInterface interface {
	AddFromText(ctx context.Context, date string, meal domain.MealType, text string) (*domain.FoodItem, error)
	AddFromImage(ctx context.Context, date string, meal domain.MealType, data []byte, mimeType string) (*domain.FoodItem, error)
	IsBusy(date string, meal domain.MealType) bool
}

// AIServiceInterface defines the contract for the food resolver backend
type AIServiceInterface interface {
	domain.FoodResolver
	Provider() string
	Close() error
}
