package services

import (
	"context"
	"sync"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"github.com/vladimiradmaev/nurture-diary/internal/nutrition"
)

// UserService owns the single profile and the goal derived from it.
type UserService struct {
	mu      sync.RWMutex
	repo    domain.ProfileRepository
	profile domain.UserProfile
}

func NewUserService(ctx context.Context, repo domain.ProfileRepository) (*UserService, error) {
	profile, found, err := repo.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Info("No stored profile, using defaults")
		profile = domain.DefaultProfile()
	}
	return &UserService{repo: repo, profile: profile}, nil
}

func (s *UserService) Profile() domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// UpdateProfile validates and saves p. On a failed save the previous
// profile stays in effect.
func (s *UserService) UpdateProfile(ctx context.Context, p domain.UserProfile) error {
	if err := p.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return err
	}
	s.profile = p
	logger.Info("Profile updated", "activity_level", p.ActivityLevel, "weight", p.Weight)
	return nil
}

// CurrentGoal is the goal for the profile as it is now.
func (s *UserService) CurrentGoal() domain.NutritionAmounts {
	return nutrition.Goal(s.Profile())
}

func (s *UserService) BMI() (float64, nutrition.BMICategory) {
	bmi := nutrition.BMI(s.Profile())
	return bmi, nutrition.BMICategoryOf(bmi)
}
