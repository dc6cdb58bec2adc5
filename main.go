package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/nurture-diary/internal/bot"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/handlers"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/config"
	"github.com/vladimiradmaev/nurture-diary/internal/database"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"github.com/vladimiradmaev/nurture-diary/internal/repository"
	"github.com/vladimiradmaev/nurture-diary/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using the environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(cfg.Logger.ToLogger()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()
	logger.Info("Starting Nurture Diary bot", "storage", cfg.Storage.Driver, "provider", cfg.AI.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	repo := repository.NewDiaryRepository(store)
	defer repo.Close()

	userService, err := services.NewUserService(ctx, repo)
	if err != nil {
		logger.Fatal("Failed to load profile", "error", err)
	}
	diaryService, err := services.NewDiaryService(ctx, repo, userService)
	if err != nil {
		logger.Fatal("Failed to load diary", "error", err)
	}
	aiService, err := services.NewAIService(ctx, cfg.AI)
	if err != nil {
		logger.Fatal("Failed to create AI service", "error", err)
	}
	defer aiService.Close()
	foodAnalysisService := services.NewFoodAnalysisService(aiService, diaryService)
	logger.Info("Services initialized", "days", len(diaryService.Dates()))

	stateManager, closeState, err := newStateManager(cfg)
	if err != nil {
		logger.Fatal("Failed to create state manager", "driver", cfg.State.Driver, "error", err)
	}
	defer closeState()

	deps := handlers.Dependencies{
		Diary:        diaryService,
		FoodAnalysis: foodAnalysisService,
		User:         userService,
	}
	telegramBot, err := bot.NewBot(cfg.Telegram.Token, cfg.Telegram.OwnerID, deps, stateManager)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot stopped")
}

func newStateManager(cfg *config.Config) (state.StateManager, func(), error) {
	if cfg.State.Driver != config.StateRedis {
		return state.NewManager(), func() {}, nil
	}
	client, err := database.NewRedisClient(cfg.Storage.Redis)
	if err != nil {
		return nil, nil, err
	}
	m := state.NewRedisManager(client)
	return m, func() { m.Close() }, nil
}
