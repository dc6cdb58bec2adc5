package nutrition

import "github.com/vladimiradmaev/nurture-diary/internal/domain"

// Totals sums every item of every meal in the log.
func Totals(log domain.DailyLog) domain.NutritionAmounts {
	var total domain.NutritionAmounts
	for _, items := range log.Meals {
		for _, item := range items {
			total = total.Add(item.NutritionAmounts)
		}
	}
	return total
}

// MealTotals sums one meal of the log.
func MealTotals(log domain.DailyLog, meal domain.MealType) domain.NutritionAmounts {
	var total domain.NutritionAmounts
	for _, item := range log.Meals[meal] {
		total = total.Add(item.NutritionAmounts)
	}
	return total
}

// Remaining is the calorie budget left for the day, never below zero.
func Remaining(goal, totals domain.NutritionAmounts) float64 {
	return max(0, goal.Calories-round(totals.Calories))
}

// Progress is the consumed share of the calorie goal in percent, capped at 100.
func Progress(goal, totals domain.NutritionAmounts) float64 {
	if goal.Calories <= 0 {
		return 0
	}
	return min(100, totals.Calories/goal.Calories*100)
}

// Summarize assembles what is shown for one day.
func Summarize(lookup domain.LogLookup, goal domain.NutritionAmounts) domain.DaySummary {
	totals := Totals(lookup.Log)
	return domain.DaySummary{
		Lookup:    lookup,
		Totals:    totals,
		Goal:      goal,
		Remaining: Remaining(goal, totals),
		Progress:  Progress(goal, totals),
	}
}
