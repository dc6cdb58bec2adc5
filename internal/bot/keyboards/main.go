package keyboards

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	"github.com/vladimiradmaev/nurture-diary/internal/utils"
)

const maxButtonText = 24

// DayView builds the keyboard under a day summary: the week strip around
// today, a way back to today, add buttons for meals with room and a delete
// button per entry.
func DayView(log domain.DailyLog, now time.Time, busy func(domain.MealType) bool) tgbotapi.InlineKeyboardMarkup {
	today := utils.DateKey(now)
	var rows [][]tgbotapi.InlineKeyboardButton

	var strip []tgbotapi.InlineKeyboardButton
	for _, d := range utils.WeekStrip(now) {
		strip = append(strip, tgbotapi.NewInlineKeyboardButtonData(dayLabel(d, d == log.Date), DayData(d)))
	}
	rows = append(rows, strip)

	if log.Date != today {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back to today", DayData(today)),
		))
	}

	var add []tgbotapi.InlineKeyboardButton
	for _, meal := range domain.MealTypes {
		if len(log.Meals[meal]) >= domain.MaxItemsPerMeal {
			continue
		}
		label := "➕ " + meal.Title()
		if busy != nil && busy(meal) {
			label = "⏳ " + meal.Title()
		}
		add = append(add, tgbotapi.NewInlineKeyboardButtonData(label, AddData(log.Date, meal)))
	}
	for i := 0; i < len(add); i += 2 {
		rows = append(rows, add[i:min(i+2, len(add))])
	}

	for _, meal := range domain.MealTypes {
		for _, item := range log.Meals[meal] {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑️ "+truncate(item.Name, maxButtonText), DeleteData(log.Date, meal, item.ID)),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("👤 Profile", ActionProfile),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dayLabel(date string, selected bool) string {
	t, err := utils.ParseDate(date)
	if err != nil {
		return date
	}
	label := fmt.Sprintf("%s %d", t.Weekday().String()[:2], t.Day())
	if selected {
		return "• " + label
	}
	return label
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// ProfileMenu lists the editable profile fields.
func ProfileMenu() tgbotapi.InlineKeyboardMarkup {
	edit := func(label, field string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, ActionProfileEdit+":"+field)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(edit("✏️ Name", FieldName), edit("⚧ Gender", FieldGender)),
		tgbotapi.NewInlineKeyboardRow(edit("📏 Height", FieldHeight), edit("⚖️ Weight", FieldWeight)),
		tgbotapi.NewInlineKeyboardRow(edit("🎂 Age", FieldAge), edit("🏃 Activity", FieldActivity)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back to diary", ActionMainMenu),
		),
	)
}

func GenderMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Male", ActionGender+":"+string(domain.GenderMale)),
			tgbotapi.NewInlineKeyboardButtonData("Female", ActionGender+":"+string(domain.GenderFemale)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", ActionProfile),
		),
	)
}

func ActivityMenu(current domain.ActivityLevel) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, level := range domain.ActivityLevels {
		label := level.Label()
		if level == current {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, ActionActivity+":"+string(level)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", ActionProfile),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Cancel is shown while the bot waits for typed input.
func Cancel() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", ActionMainMenu),
		),
	)
}
