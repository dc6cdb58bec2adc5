package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// MaxItemsPerMeal caps every meal list of a day.
const MaxItemsPerMeal = 6

// Gender selects the constant term of the BMR formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Gender(s)
	if !v.Valid() {
		return fmt.Errorf("unknown gender %q", s)
	}
	*g = v
	return nil
}

// ActivityLevel is a closed set of tags, each mapped to a TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"
)

// ActivityLevels lists the levels from least to most active.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityVery,
	ActivityExtra,
}

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityVery:      1.725,
	ActivityExtra:     1.9,
}

// Older profiles stored the multiplier text itself as the tag.
var legacyActivityTags = map[string]ActivityLevel{
	"1.2":   ActivitySedentary,
	"1.375": ActivityLight,
	"1.55":  ActivityModerate,
	"1.725": ActivityVery,
	"1.9":   ActivityExtra,
}

var activityLabels = map[ActivityLevel]string{
	ActivitySedentary: "Sedentary (little or no exercise)",
	ActivityLight:     "Light (exercise 1-3 days/week)",
	ActivityModerate:  "Moderate (exercise 3-5 days/week)",
	ActivityVery:      "Very active (exercise 6-7 days/week)",
	ActivityExtra:     "Extra active (daily training or physical job)",
}

// Multiplier returns the TDEE factor; ok is false for tags outside the enum.
func (a ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[a]
	return m, ok
}

func (a ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[a]
	return ok
}

func (a ActivityLevel) Label() string {
	if l, ok := activityLabels[a]; ok {
		return l
	}
	return string(a)
}

// ParseActivityLevel accepts a current tag or a legacy multiplier tag.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	if a := ActivityLevel(s); a.Valid() {
		return a, nil
	}
	if a, ok := legacyActivityTags[s]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown activity level %q", s)
}

func (a *ActivityLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseActivityLevel(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// UserProfile holds the body metrics the daily goal is derived from.
type UserProfile struct {
	Name          string        `json:"name"`
	Gender        Gender        `json:"gender"`
	Height        float64       `json:"height"` // cm
	Weight        float64       `json:"weight"` // kg
	Age           int           `json:"age"`
	AvatarURL     string        `json:"avatarUrl"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// DefaultProfile is used when no profile has been stored yet.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:          "Alex",
		Gender:        GenderMale,
		Height:        175,
		Weight:        70,
		Age:           28,
		AvatarURL:     "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?auto=format&fit=crop&q=80&w=150&h=150",
		ActivityLevel: ActivityLight,
	}
}

// Validate checks the fields a profile edit must satisfy.
func (p UserProfile) Validate() error {
	switch {
	case !p.Gender.Valid():
		return fmt.Errorf("unknown gender %q", p.Gender)
	case !p.ActivityLevel.Valid():
		return fmt.Errorf("unknown activity level %q", p.ActivityLevel)
	case !positiveFinite(p.Height):
		return fmt.Errorf("height must be positive")
	case !positiveFinite(p.Weight):
		return fmt.Errorf("weight must be positive")
	case p.Age <= 0:
		return fmt.Errorf("age must be positive")
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// NutritionAmounts is used for goals, per-item amounts and running totals alike.
type NutritionAmounts struct {
	Calories float64 `json:"calories"` // kcal
	Protein  float64 `json:"protein"`  // g
	Fat      float64 `json:"fat"`      // g
	Carbs    float64 `json:"carbs"`    // g
}

func (n NutritionAmounts) Add(o NutritionAmounts) NutritionAmounts {
	return NutritionAmounts{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fat:      n.Fat + o.Fat,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// FoodItem is one logged entry of a meal.
type FoodItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	ImageURL string `json:"imageUrl,omitempty"`
	NutritionAmounts
}

// MealType is one of the four fixed meal slots of a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the meals in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

func (m MealType) Title() string {
	switch m {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	case MealSnack:
		return "Snack"
	}
	return string(m)
}

func ParseMealType(s string) (MealType, error) {
	m := MealType(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown meal type %q", s)
	}
	return m, nil
}

// DailyLog is the diary page of one calendar day.
type DailyLog struct {
	Date  string                  `json:"date"`
	Meals map[MealType][]FoodItem `json:"meals"`
	Goals NutritionAmounts        `json:"goals"`
}

// NewDailyLog returns a log with all four meal lists present and empty.
func NewDailyLog(date string, goals NutritionAmounts) DailyLog {
	l := DailyLog{Date: date, Goals: goals}
	l.Normalize()
	return l
}

// Normalize makes sure every meal has a non-nil list.
func (l *DailyLog) Normalize() {
	if l.Meals == nil {
		l.Meals = make(map[MealType][]FoodItem, len(MealTypes))
	}
	for _, m := range MealTypes {
		if l.Meals[m] == nil {
			l.Meals[m] = []FoodItem{}
		}
	}
}

// Clone returns a deep copy; meal slices are not shared.
func (l DailyLog) Clone() DailyLog {
	c := DailyLog{Date: l.Date, Goals: l.Goals, Meals: make(map[MealType][]FoodItem, len(l.Meals))}
	for m, items := range l.Meals {
		c.Meals[m] = append([]FoodItem{}, items...)
	}
	c.Normalize()
	return c
}

// LogCollection maps a date key to its log.
type LogCollection map[string]DailyLog

// With returns a shallow copy of c with date set to log.
func (c LogCollection) With(date string, log DailyLog) LogCollection {
	next := make(LogCollection, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[date] = log
	return next
}

// LogSource tells whether a log came from storage or was made up on the fly.
type LogSource int

const (
	LogFound LogSource = iota
	LogSynthesized
)

func (s LogSource) String() string {
	if s == LogSynthesized {
		return "synthesized"
	}
	return "found"
}

// LogLookup is the result of reading the diary for one date.
type LogLookup struct {
	Log    DailyLog
	Source LogSource
}

func (r LogLookup) Found() bool {
	return r.Source == LogFound
}

// FoodInput is what the user typed or photographed.
type FoodInput struct {
	Text     string
	Image    []byte
	MIMEType string
}

func (in FoodInput) IsImage() bool {
	return len(in.Image) > 0
}

// FoodEstimate is a resolver answer, an item without identity.
type FoodEstimate struct {
	Name    string `json:"name"`
	Portion string `json:"portion"`
	NutritionAmounts
}

// MealSlot identifies one meal of one day.
type MealSlot struct {
	Date string
	Meal MealType
}

// SlotState tracks whether a resolver call is outstanding for a slot.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotInFlight
)

// DaySummary is everything the presentation layer renders for a date.
type DaySummary struct {
	Lookup    LogLookup
	Totals    NutritionAmounts
	Goal      NutritionAmounts
	Remaining float64
	Progress  float64
}
