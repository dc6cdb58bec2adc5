package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	base
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	cb, err := keyboards.ParseCallback(query.Data)
	if err != nil {
		logger.Warn("Ignoring unknown callback", "data", query.Data, "error", err)
		return nil
	}

	switch cb.Action {
	case keyboards.ActionDay:
		h.stateManager.SetUserState(userID, state.None)
		h.stateManager.SetTempData(userID, state.KeyDate, cb.Date)
		return h.showDay(chatID, messageID, cb.Date)
	case keyboards.ActionAdd:
		return h.handleAdd(ctx, userID, chatID, cb.Date, cb.Meal)
	case keyboards.ActionDelete:
		if err := h.deps.Diary.DeleteItem(ctx, cb.Date, cb.Meal, cb.ItemID); err != nil {
			return h.notify(ctx, chatID, err)
		}
		return h.showDay(chatID, messageID, cb.Date)
	case keyboards.ActionProfile:
		h.stateManager.SetUserState(userID, state.None)
		return h.showProfile(chatID)
	case keyboards.ActionProfileEdit:
		return h.handleProfileEdit(userID, chatID, cb.Value)
	case keyboards.ActionGender:
		p := h.deps.User.Profile()
		p.Gender = domain.Gender(cb.Value)
		return h.saveProfile(ctx, chatID, p)
	case keyboards.ActionActivity:
		level, err := domain.ParseActivityLevel(cb.Value)
		if err != nil {
			return h.notify(ctx, chatID, apperrors.NewValidationError(err.Error()))
		}
		p := h.deps.User.Profile()
		p.ActivityLevel = level
		return h.saveProfile(ctx, chatID, p)
	case keyboards.ActionMainMenu:
		h.stateManager.SetUserState(userID, state.None)
		return h.showDay(chatID, messageID, h.selectedDate(userID))
	}
	return nil
}

// handleAdd runs the synchronous checks before the user is asked for input.
func (h *CallbackHandler) handleAdd(ctx context.Context, userID, chatID int64, date string, meal domain.MealType) error {
	if err := h.deps.Diary.CheckCapacity(date, meal); err != nil {
		return h.notify(ctx, chatID, err)
	}
	if h.deps.FoodAnalysis.IsBusy(date, meal) {
		return h.notify(ctx, chatID, apperrors.NewBusyError(date, string(meal)))
	}

	h.stateManager.SetUserState(userID, state.WaitingForFood)
	h.stateManager.SetTempData(userID, state.KeyDate, date)
	h.stateManager.SetTempData(userID, state.KeyMeal, string(meal))

	kb := keyboards.Cancel()
	text := fmt.Sprintf("%s, %s\nDescribe what you ate or send a photo.", meal.Title(), date)
	return menus.SendText(h.api, chatID, text, &kb)
}

var fieldPrompts = map[string]string{
	keyboards.FieldName:   "Send your name.",
	keyboards.FieldHeight: "Send your height in cm, for example 172.5",
	keyboards.FieldWeight: "Send your weight in kg, for example 64.2",
	keyboards.FieldAge:    "Send your age in years.",
}

func (h *CallbackHandler) handleProfileEdit(userID, chatID int64, field string) error {
	switch field {
	case keyboards.FieldGender:
		kb := keyboards.GenderMenu()
		return menus.SendText(h.api, chatID, "Choose your gender:", &kb)
	case keyboards.FieldActivity:
		kb := keyboards.ActivityMenu(h.deps.User.Profile().ActivityLevel)
		return menus.SendText(h.api, chatID, "How active are you?", &kb)
	}

	prompt, ok := fieldPrompts[field]
	if !ok {
		logger.Warn("Unknown profile field", "field", field)
		return nil
	}
	h.stateManager.SetUserState(userID, state.WaitingForProfileValue)
	h.stateManager.SetTempData(userID, state.KeyField, field)
	kb := keyboards.Cancel()
	return menus.SendText(h.api, chatID, prompt, &kb)
}

func (b base) saveProfile(ctx context.Context, chatID int64, p domain.UserProfile) error {
	if err := b.deps.User.UpdateProfile(ctx, p); err != nil {
		return b.notify(ctx, chatID, err)
	}
	return b.showProfile(chatID)
}
