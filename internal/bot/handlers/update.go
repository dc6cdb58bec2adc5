package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             menus.Sender
	ownerID         int64
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

// NewUpdateHandler creates a new update handler. An ownerID of zero lets
// every chat use the diary.
func NewUpdateHandler(api menus.Sender, ownerID int64, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	b := newBase(api, deps, stateManager)
	return &UpdateHandler{
		api:             api,
		ownerID:         ownerID,
		callbackHandler: &CallbackHandler{base: b},
		commandHandler:  &CommandHandler{base: b},
		textHandler:     &TextHandler{base: b},
		photoHandler:    &PhotoHandler{base: b},
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var (
		from   *tgbotapi.User
		chatID int64
	)
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		from = update.CallbackQuery.From
		chatID = update.CallbackQuery.Message.Chat.ID
	case update.Message != nil:
		from = update.Message.From
		chatID = update.Message.Chat.ID
	default:
		return nil
	}
	if from == nil {
		return nil
	}

	if h.ownerID != 0 && from.ID != h.ownerID {
		logger.Warn("Ignoring update from a foreign user", "user_id", from.ID, "chat_id", chatID)
		if update.Message != nil {
			return menus.SendText(h.api, chatID, "🔒 This diary is private.", nil)
		}
		return nil
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	message := update.Message
	switch {
	case message.IsCommand():
		return h.commandHandler.Handle(ctx, message)
	case len(message.Photo) > 0:
		return h.photoHandler.Handle(ctx, message)
	case message.Text != "":
		return h.textHandler.Handle(ctx, message)
	}
	return nil
}
