package domain

import "context"

// FoodResolver turns free text or a photo into a nutrition estimate.
type FoodResolver interface {
	Resolve(ctx context.Context, input FoodInput) (*FoodEstimate, error)
}

// ProfileRepository persists the single user profile.
type ProfileRepository interface {
	LoadProfile(ctx context.Context) (UserProfile, bool, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
}

// LogRepository persists the whole log collection as one unit.
type LogRepository interface {
	LoadLogs(ctx context.Context) (LogCollection, error)
	SaveLogs(ctx context.Context, logs LogCollection) error
}

// GoalProvider yields the goal computed from the current profile.
type GoalProvider interface {
	CurrentGoal() NutritionAmounts
}
