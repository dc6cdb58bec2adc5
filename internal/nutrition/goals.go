// Package nutrition holds the pure calculators behind the diary: the daily
// goal derived from body metrics and the running totals of a day.
package nutrition

import (
	"math"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
)

const (
	proteinPerKg       = 1.8
	fatCalorieShare    = 0.25
	kcalPerGramFat     = 9.0
	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
)

// round is half-up toward +Inf, so -2.5 becomes -2 rather than -3.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// BMR computes the Mifflin-St Jeor basal metabolic rate.
func BMR(p domain.UserProfile) float64 {
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == domain.GenderFemale {
		return bmr - 161
	}
	return bmr + 5
}

// TDEE scales the BMR by the activity multiplier and rounds it.
// An activity level outside the enum counts as sedentary.
func TDEE(p domain.UserProfile) float64 {
	m, ok := p.ActivityLevel.Multiplier()
	if !ok {
		m, _ = domain.ActivitySedentary.Multiplier()
	}
	return round(BMR(p) * m)
}

// Goal derives the daily calorie and macro targets from a profile.
//
// Carbs fill the calories left after protein and fat; the protein share is
// taken from the unrounded weight*1.8 figure, not from the rounded goal.
func Goal(p domain.UserProfile) domain.NutritionAmounts {
	calories := TDEE(p)
	protein := p.Weight * proteinPerKg
	fatKcal := calories * fatCalorieShare

	return domain.NutritionAmounts{
		Calories: calories,
		Protein:  round(protein),
		Fat:      round(fatKcal / kcalPerGramFat),
		Carbs:    round((calories - protein*kcalPerGramProtein - fatKcal) / kcalPerGramCarb),
	}
}

// BMICategory buckets a BMI value.
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// BMI returns weight / height² with height converted to meters.
func BMI(p domain.UserProfile) float64 {
	if p.Height <= 0 {
		return 0
	}
	h := p.Height / 100
	return p.Weight / (h * h)
}

func BMICategoryOf(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 24:
		return BMINormal
	case bmi < 27:
		return BMIOverweight
	default:
		return BMIObese
	}
}
