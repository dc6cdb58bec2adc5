package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

const maxNameLength = 40

// TextHandler handles plain text messages
type TextHandler struct {
	base
}

// Handle processes a text message according to the user's state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForFood:
		return h.handleFood(ctx, message)
	case state.WaitingForProfileValue:
		return h.handleProfileValue(ctx, userID, chatID, strings.TrimSpace(message.Text))
	default:
		if err := menus.SendText(h.api, chatID, "Press ➕ under a meal first, then describe the food.", nil); err != nil {
			return err
		}
		return h.showDay(chatID, 0, h.selectedDate(userID))
	}
}

// pendingSlot returns the meal the user chose to add to.
func (b base) pendingSlot(userID int64) (string, domain.MealType, bool) {
	meal, ok := b.stateManager.GetTempData(userID, state.KeyMeal)
	if !ok || !domain.MealType(meal).Valid() {
		return "", "", false
	}
	return b.selectedDate(userID), domain.MealType(meal), true
}

func (h *TextHandler) handleFood(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	date, meal, ok := h.pendingSlot(userID)
	if !ok {
		h.stateManager.SetUserState(userID, state.None)
		return h.showDay(chatID, 0, h.selectedDate(userID))
	}

	if err := menus.SendText(h.api, chatID, "🔎 Analyzing…", nil); err != nil {
		logger.Warn("Failed to send progress message", "error", err)
	}

	item, err := h.deps.FoodAnalysis.AddFromText(ctx, date, meal, message.Text)
	return h.finishFood(ctx, userID, chatID, date, meal, item, err)
}

// finishFood reports the outcome of an add attempt and shows the day.
// A busy slot leaves the conversation as it is, since the earlier attempt
// is still running.
func (b base) finishFood(ctx context.Context, userID, chatID int64, date string, meal domain.MealType, item *domain.FoodItem, err error) error {
	if err != nil {
		if !errors.Is(err, apperrors.ErrSlotBusy) {
			b.leaveFood(userID, date, meal)
		}
		return b.notify(ctx, chatID, err)
	}

	b.leaveFood(userID, date, meal)
	text := fmt.Sprintf("✅ Added %s (%s), %.0f kcal", item.Name, item.Portion, item.Calories)
	if err := menus.SendText(b.api, chatID, text, nil); err != nil {
		logger.Warn("Failed to send confirmation", "error", err)
	}
	return b.showDay(chatID, 0, date)
}

// leaveFood ends the waiting-for-food state, unless the user has moved on to
// another meal or prompt while the resolver was running.
func (b base) leaveFood(userID int64, date string, meal domain.MealType) {
	if b.stateManager.GetUserState(userID) != state.WaitingForFood {
		return
	}
	if d, m, ok := b.pendingSlot(userID); ok && (d != date || m != meal) {
		return
	}
	b.stateManager.SetUserState(userID, state.None)
}

func (h *TextHandler) handleProfileValue(ctx context.Context, userID, chatID int64, value string) error {
	field, _ := h.stateManager.GetTempData(userID, state.KeyField)
	p := h.deps.User.Profile()

	var parseErr error
	switch field {
	case keyboards.FieldName:
		if value == "" || len([]rune(value)) > maxNameLength {
			parseErr = apperrors.NewValidationError("name must be 1 to 40 characters")
		}
		p.Name = value
	case keyboards.FieldHeight:
		p.Height, parseErr = parsePositive(value, "height")
	case keyboards.FieldWeight:
		p.Weight, parseErr = parsePositive(value, "weight")
	case keyboards.FieldAge:
		age, err := strconv.Atoi(value)
		if err != nil || age <= 0 || age > 150 {
			parseErr = apperrors.NewValidationError("age must be a whole number of years")
		}
		p.Age = age
	default:
		h.stateManager.SetUserState(userID, state.None)
		return h.showProfile(chatID)
	}

	// The user stays in the prompt until a value is accepted.
	if parseErr != nil {
		return h.notify(ctx, chatID, parseErr)
	}
	if err := h.deps.User.UpdateProfile(ctx, p); err != nil {
		return h.notify(ctx, chatID, err)
	}
	h.stateManager.SetUserState(userID, state.None)
	return h.showProfile(chatID)
}

func parsePositive(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || v <= 0 || v > 1000 {
		return 0, apperrors.NewValidationError(what + " must be a positive number")
	}
	return v, nil
}
