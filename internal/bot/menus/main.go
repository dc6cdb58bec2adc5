package menus

import (
	"fmt"
	"math"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	"github.com/vladimiradmaev/nurture-diary/internal/nutrition"
	"github.com/vladimiradmaev/nurture-diary/internal/utils"
)

// Sender is the part of *tgbotapi.BotAPI the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

const barWidth = 10

// DayText renders the summary of one day.
func DayText(sum domain.DaySummary, now time.Time) string {
	log := sum.Lookup.Log
	var b strings.Builder

	title := log.Date
	if t, err := utils.ParseDate(log.Date); err == nil {
		title = t.Format("Monday, January 2")
	}
	if log.Date == utils.DateKey(now) {
		title += " (today)"
	}
	fmt.Fprintf(&b, "📅 %s\n\n", title)

	fmt.Fprintf(&b, "🔥 %d / %d kcal\n", int(math.Round(sum.Totals.Calories)), int(sum.Goal.Calories))
	fmt.Fprintf(&b, "Remaining: %d kcal\n", int(sum.Remaining))
	fmt.Fprintf(&b, "%s %d%%\n\n", bar(sum.Progress), int(sum.Progress))

	fmt.Fprintf(&b, "%s\n", macroLine("Protein", sum.Totals.Protein, sum.Goal.Protein))
	fmt.Fprintf(&b, "%s\n", macroLine("Fat", sum.Totals.Fat, sum.Goal.Fat))
	fmt.Fprintf(&b, "%s\n", macroLine("Carbs", sum.Totals.Carbs, sum.Goal.Carbs))

	for _, meal := range domain.MealTypes {
		items := log.Meals[meal]
		mealKcal := nutrition.MealTotals(log, meal).Calories
		fmt.Fprintf(&b, "\n%s %s (%d/%d) · %d kcal\n", mealIcon(meal), meal.Title(), len(items), domain.MaxItemsPerMeal, int(math.Round(mealKcal)))
		if len(items) == 0 {
			b.WriteString("   —\n")
		}
		for _, it := range items {
			photo := ""
			if it.ImageURL != "" {
				photo = " 📷"
			}
			fmt.Fprintf(&b, "   • %s (%s)%s: %d kcal\n", it.Name, it.Portion, photo, int(math.Round(it.Calories)))
		}
	}
	return b.String()
}

func macroLine(label string, current, goal float64) string {
	pct := 0.0
	if goal > 0 {
		pct = min(100, current/goal*100)
	}
	return fmt.Sprintf("%-8s %s %.0f / %.0f g", label, bar(pct), current, goal)
}

func bar(pct float64) string {
	filled := int(math.Round(max(0, min(100, pct)) / 100 * barWidth))
	return strings.Repeat("▓", filled) + strings.Repeat("░", barWidth-filled)
}

func mealIcon(meal domain.MealType) string {
	switch meal {
	case domain.MealBreakfast:
		return "🍳"
	case domain.MealLunch:
		return "🍱"
	case domain.MealDinner:
		return "🍲"
	default:
		return "🍪"
	}
}

// ProfileText renders the body metrics with the derived BMI and goal.
func ProfileText(p domain.UserProfile, bmi float64, category nutrition.BMICategory, goal domain.NutritionAmounts) string {
	return fmt.Sprintf(`👤 %s

Gender: %s
Height: %.1f cm
Weight: %.1f kg
Age: %d
Activity: %s

BMI: %.1f (%s)

🎯 Daily goal
%d kcal · protein %d g · fat %d g · carbs %d g`,
		p.Name, p.Gender, p.Height, p.Weight, p.Age, p.ActivityLevel.Label(),
		bmi, category,
		int(goal.Calories), int(goal.Protein), int(goal.Fat), int(goal.Carbs))
}

const HelpText = `Available commands:
/start, /today - today's diary
/date YYYY-MM-DD - open another day
/profile - body metrics, BMI and daily goal
/help - this message

To log food, press ➕ under a meal and then send a description or a photo.
Each meal holds at most 6 entries.`

// SendDay shows the summary of a day. With a non-zero messageID the existing
// message is edited in place.
func SendDay(api Sender, chatID int64, messageID int, sum domain.DaySummary, now time.Time, busy func(domain.MealType) bool) error {
	text := DayText(sum, now)
	kb := keyboards.DayView(sum.Lookup.Log, now, busy)

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		_, err := api.Send(edit)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := api.Send(msg)
	return err
}

func SendProfile(api Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.ProfileMenu()
	_, err := api.Send(msg)
	return err
}

// SendText sends plain text with an optional inline keyboard.
func SendText(api Sender, chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := api.Send(msg)
	return err
}
