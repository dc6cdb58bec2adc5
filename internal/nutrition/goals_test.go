package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
)

func profile(gender domain.Gender, weight, height float64, age int, level domain.ActivityLevel) domain.UserProfile {
	return domain.UserProfile{Gender: gender, Weight: weight, Height: height, Age: age, ActivityLevel: level}
}

func TestGoalReferenceProfile(t *testing.T) {
	p := profile(domain.GenderMale, 70, 175, 28, domain.ActivityLight)

	assert.Equal(t, 1658.75, BMR(p))
	assert.Equal(t, domain.NutritionAmounts{Calories: 2281, Protein: 126, Fat: 63, Carbs: 302}, Goal(p))
}

func TestGoalDefaultProfileMatchesReference(t *testing.T) {
	assert.Equal(t, domain.NutritionAmounts{Calories: 2281, Protein: 126, Fat: 63, Carbs: 302}, Goal(domain.DefaultProfile()))
}

func TestBMRGenderDiffersOnlyInConstant(t *testing.T) {
	male := profile(domain.GenderMale, 62.5, 168, 41, domain.ActivityModerate)
	female := male
	female.Gender = domain.GenderFemale

	assert.Equal(t, 166.0, BMR(male)-BMR(female))
}

func TestGoalFemaleSedentary(t *testing.T) {
	p := profile(domain.GenderFemale, 55, 160, 30, domain.ActivitySedentary)
	// BMR = 550 + 1000 - 150 - 161 = 1239; TDEE = round(1486.8) = 1487
	g := Goal(p)
	assert.Equal(t, 1487.0, g.Calories)
	assert.Equal(t, 99.0, g.Protein)
	assert.Equal(t, 41.0, g.Fat)
	assert.Equal(t, 180.0, g.Carbs) // round(179.8125)
}

func TestGoalUsesUnroundedProtein(t *testing.T) {
	// weight*1.8 = 122.49 rounds to 122, but carbs must use 122.49*4.
	p := profile(domain.GenderMale, 68.05, 180, 35, domain.ActivityVery)
	g := Goal(p)
	assert.Equal(t, 2821.0, g.Calories)
	assert.Equal(t, 122.0, g.Protein)
	assert.Equal(t, 406.0, g.Carbs) // rounded protein would give 407
}

func TestGoalOutputsAreNonNegativeIntegers(t *testing.T) {
	for _, level := range domain.ActivityLevels {
		for _, gender := range []domain.Gender{domain.GenderMale, domain.GenderFemale} {
			g := Goal(profile(gender, 48, 150, 70, level))
			for _, v := range []float64{g.Calories, g.Protein, g.Fat, g.Carbs} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.Equal(t, math.Trunc(v), v)
			}
		}
	}
}

func TestGoalAcceptsDegenerateInput(t *testing.T) {
	g := Goal(profile(domain.GenderFemale, 0, 0, 0, domain.ActivitySedentary))
	// BMR = -161, TDEE = round(-193.2) = -193
	assert.Equal(t, -193.0, g.Calories)
	assert.Equal(t, 0.0, g.Protein)
}

func TestRoundIsHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, round(2.5))
	assert.Equal(t, -2.0, round(-2.5))
	assert.Equal(t, 302.0, round(301.6875))
}

func TestBMI(t *testing.T) {
	p := profile(domain.GenderMale, 70, 175, 28, domain.ActivityLight)
	assert.InDelta(t, 22.857, BMI(p), 0.001)
	assert.Equal(t, BMINormal, BMICategoryOf(BMI(p)))

	assert.Equal(t, BMIUnderweight, BMICategoryOf(18.4))
	assert.Equal(t, BMIOverweight, BMICategoryOf(24))
	assert.Equal(t, BMIObese, BMICategoryOf(27))
	assert.Equal(t, 0.0, BMI(profile(domain.GenderMale, 70, 0, 28, domain.ActivityLight)))
}
