package keyboards

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
)

// Callback actions carried in inline button data.
const (
	ActionDay         = "day"
	ActionAdd         = "add"
	ActionDelete      = "del"
	ActionProfile     = "profile"
	ActionProfileEdit = "profile_edit"
	ActionActivity    = "activity"
	ActionGender      = "gender"
	ActionMainMenu    = "main_menu"
)

// Profile fields that can be edited from the profile menu.
const (
	FieldName     = "name"
	FieldHeight   = "height"
	FieldWeight   = "weight"
	FieldAge      = "age"
	FieldGender   = "gender"
	FieldActivity = "activity"
)

// Callback is a decoded button press.
type Callback struct {
	Action string
	Date   string
	Meal   domain.MealType
	ItemID string
	Value  string
}

func DayData(date string) string {
	return ActionDay + ":" + date
}

func AddData(date string, meal domain.MealType) string {
	return fmt.Sprintf("%s:%s:%s", ActionAdd, date, meal)
}

func DeleteData(date string, meal domain.MealType, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", ActionDelete, date, meal, id)
}

// ParseCallback decodes button data produced by the *Data helpers above.
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	cb := Callback{Action: parts[0]}

	want := map[string]int{
		ActionDay:         2,
		ActionAdd:         3,
		ActionDelete:      4,
		ActionProfile:     1,
		ActionProfileEdit: 2,
		ActionActivity:    2,
		ActionGender:      2,
		ActionMainMenu:    1,
	}
	n, known := want[cb.Action]
	if !known {
		return Callback{}, fmt.Errorf("unknown callback action %q", cb.Action)
	}
	if len(parts) != n {
		return Callback{}, fmt.Errorf("malformed %s callback %q", cb.Action, data)
	}

	switch cb.Action {
	case ActionDay:
		cb.Date = parts[1]
	case ActionAdd:
		cb.Date, cb.Meal = parts[1], domain.MealType(parts[2])
	case ActionDelete:
		cb.Date, cb.Meal, cb.ItemID = parts[1], domain.MealType(parts[2]), parts[3]
	case ActionProfileEdit, ActionActivity, ActionGender:
		cb.Value = parts[1]
	}
	if cb.Meal != "" && !cb.Meal.Valid() {
		return Callback{}, fmt.Errorf("unknown meal in callback %q", data)
	}
	return cb, nil
}
