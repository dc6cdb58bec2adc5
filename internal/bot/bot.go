package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/handlers"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// Bot polls Telegram and hands every update to the handlers.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
	wg      sync.WaitGroup
}

func NewBot(token string, ownerID int64, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "username", api.Self.UserName, "owner_id", ownerID)
	if ownerID == 0 {
		logger.Warn("TELEGRAM_OWNER_ID is not set, the diary answers every chat")
	}

	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, ownerID, deps, stateManager),
	}, nil
}

var commands = []tgbotapi.BotCommand{
	{Command: "today", Description: "Today's diary"},
	{Command: "date", Description: "Open another day (YYYY-MM-DD)"},
	{Command: "profile", Description: "Body metrics, BMI and daily goal"},
	{Command: "help", Description: "How to use the diary"},
}

// Start blocks until ctx is cancelled. Updates are handled concurrently;
// on shutdown it waits for the ones already running.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Panic while handling update", "update_id", update.UpdateID, "panic", r)
					}
				}()
				if err := b.handler.Handle(ctx, update); err != nil {
					logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
				}
			}(update)
		}
	}
}
