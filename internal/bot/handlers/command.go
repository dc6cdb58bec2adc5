package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"github.com/vladimiradmaev/nurture-diary/internal/utils"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	base
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	logger.Info("Handling command", "command", message.Command(), "user_id", userID)

	switch message.Command() {
	case "start", "today":
		h.stateManager.SetUserState(userID, state.None)
		today := utils.DateKey(h.deps.Now())
		h.stateManager.SetTempData(userID, state.KeyDate, today)
		return h.showDay(chatID, 0, today)
	case "date":
		return h.handleDate(userID, chatID, strings.TrimSpace(message.CommandArguments()))
	case "profile":
		h.stateManager.SetUserState(userID, state.None)
		return h.showProfile(chatID)
	case "help":
		return menus.SendText(h.api, chatID, menus.HelpText, nil)
	default:
		return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.", nil)
	}
}

func (h *CommandHandler) handleDate(userID, chatID int64, arg string) error {
	if _, err := utils.ParseDate(arg); err != nil {
		return menus.SendText(h.api, chatID, "Usage: /date YYYY-MM-DD, for example /date "+utils.DateKey(h.deps.Now()), nil)
	}
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.SetTempData(userID, state.KeyDate, arg)
	return h.showDay(chatID, 0, arg)
}
