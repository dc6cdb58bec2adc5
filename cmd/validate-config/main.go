package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	for _, line := range describe(cfg) {
		fmt.Println("  - " + line)
	}
}

func describe(cfg *config.Config) []string {
	owner := "<anyone>"
	if cfg.Telegram.OwnerID != 0 {
		owner = fmt.Sprint(cfg.Telegram.OwnerID)
	}
	lines := []string{
		"Telegram Token: " + maskToken(cfg.Telegram.Token),
		"Owner ID: " + owner,
		"AI Provider: " + cfg.AI.Provider,
		"AI Language: " + cfg.AI.Language,
	}

	switch cfg.AI.Provider {
	case config.ProviderGemini:
		lines = append(lines, "Gemini API Key: "+maskToken(cfg.AI.Gemini.APIKey), "Gemini Model: "+cfg.AI.Gemini.Model)
	case config.ProviderOpenAI:
		lines = append(lines, "OpenAI API Key: "+maskToken(cfg.AI.OpenAI.APIKey), "OpenAI Model: "+cfg.AI.OpenAI.Model)
	case config.ProviderVertex:
		lines = append(lines, "Vertex Project: "+cfg.AI.Vertex.ProjectID, "Vertex Location: "+cfg.AI.Vertex.Location, "Vertex Model: "+cfg.AI.Vertex.Model)
	}

	lines = append(lines, "Storage Driver: "+cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case config.StorageFile:
		lines = append(lines, "Storage Path: "+cfg.Storage.Path)
	case config.StorageSQLite:
		lines = append(lines, "SQLite Path: "+cfg.Storage.SQLitePath)
	case config.StoragePostgres:
		lines = append(lines,
			fmt.Sprintf("DB: %s@%s:%s/%s", cfg.Storage.DB.User, cfg.Storage.DB.Host, cfg.Storage.DB.Port, cfg.Storage.DB.DBName),
			"DB Password: "+maskToken(cfg.Storage.DB.Password))
	}
	if cfg.Storage.Driver == config.StorageRedis || cfg.State.Driver == config.StateRedis {
		lines = append(lines, fmt.Sprintf("Redis: %s:%s", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port))
	}

	return append(lines,
		"State Driver: "+cfg.State.Driver,
		fmt.Sprintf("Log Level: %v", cfg.Logger.Level),
		"Log Output: "+cfg.Logger.OutputPath,
		"Log Format: "+cfg.Logger.Format,
	)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
