package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMultipliers(t *testing.T) {
	want := map[ActivityLevel]float64{
		ActivitySedentary: 1.2,
		ActivityLight:     1.375,
		ActivityModerate:  1.55,
		ActivityVery:      1.725,
		ActivityExtra:     1.9,
	}
	for level, m := range want {
		got, ok := level.Multiplier()
		require.True(t, ok, level)
		assert.Equal(t, m, got, level)
	}

	_, ok := ActivityLevel("1.375").Multiplier()
	assert.False(t, ok, "a multiplier string is not a tag")
}

func TestActivityLevelJSON(t *testing.T) {
	var a ActivityLevel
	require.NoError(t, json.Unmarshal([]byte(`"moderate"`), &a))
	assert.Equal(t, ActivityModerate, a)

	require.NoError(t, json.Unmarshal([]byte(`"1.725"`), &a))
	assert.Equal(t, ActivityVery, a)

	assert.Error(t, json.Unmarshal([]byte(`"1.3"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`"couch"`), &a))
}

func TestGenderJSON(t *testing.T) {
	var g Gender
	require.NoError(t, json.Unmarshal([]byte(`"female"`), &g))
	assert.Equal(t, GenderFemale, g)
	assert.Error(t, json.Unmarshal([]byte(`"other"`), &g))
}

func TestProfileFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultProfile())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"name", "gender", "height", "weight", "age", "avatarUrl", "activityLevel"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "light", raw["activityLevel"])
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	assert.NoError(t, p.Validate())

	bad := p
	bad.Weight = 0
	assert.Error(t, bad.Validate())

	bad = p
	bad.ActivityLevel = "1.2"
	assert.Error(t, bad.Validate())

	bad = p
	bad.Weight = math.NaN()
	assert.Error(t, bad.Validate())

	bad = p
	bad.Height = math.Inf(1)
	assert.Error(t, bad.Validate())
}

func TestFoodItemFlattensAmounts(t *testing.T) {
	item := FoodItem{ID: "a1", Name: "Rice", Portion: "1 bowl", NutritionAmounts: NutritionAmounts{Calories: 280, Carbs: 62}}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a1","name":"Rice","portion":"1 bowl","calories":280,"protein":0,"fat":0,"carbs":62}`, string(data))
}

func TestNewDailyLogHasAllMeals(t *testing.T) {
	l := NewDailyLog("2024-05-01", NutritionAmounts{Calories: 2000})
	require.Len(t, l.Meals, 4)
	for _, m := range MealTypes {
		assert.NotNil(t, l.Meals[m])
		assert.Empty(t, l.Meals[m])
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	l := NewDailyLog("2024-05-01", NutritionAmounts{})
	l.Meals[MealLunch] = append(l.Meals[MealLunch], FoodItem{ID: "1"})

	c := l.Clone()
	c.Meals[MealLunch] = append(c.Meals[MealLunch], FoodItem{ID: "2"})
	c.Meals[MealLunch][0].Name = "changed"

	assert.Len(t, l.Meals[MealLunch], 1)
	assert.Empty(t, l.Meals[MealLunch][0].Name)
}

func TestLogCollectionWithCopies(t *testing.T) {
	base := LogCollection{"2024-05-01": NewDailyLog("2024-05-01", NutritionAmounts{})}
	next := base.With("2024-05-02", NewDailyLog("2024-05-02", NutritionAmounts{}))

	assert.Len(t, base, 1)
	assert.Len(t, next, 2)
}

func TestParseMealType(t *testing.T) {
	m, err := ParseMealType("snack")
	require.NoError(t, err)
	assert.Equal(t, MealSnack, m)

	_, err = ParseMealType("brunch")
	assert.Error(t, err)
}
