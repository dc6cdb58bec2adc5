package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

func setMinimalEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Gemini.Model)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.Path)
	assert.Equal(t, StateMemory, cfg.State.Driver)
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.Zero(t, cfg.Telegram.OwnerID)
}

func TestLoadOverrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("TELEGRAM_OWNER_ID", "424242")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/diary.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(424242), cfg.Telegram.OwnerID)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/diary.db", cfg.Storage.SQLitePath)
	assert.Equal(t, logger.LevelDebug, cfg.Logger.Level)
}

func TestLoadReportsAllProblems(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("TELEGRAM_OWNER_ID", "me")
	t.Setenv("STORAGE_DRIVER", "floppy")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "TELEGRAM_OWNER_ID")
	assert.Contains(t, err.Error(), "floppy")
}

func TestValidateVertexNeedsProject(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("AI_PROVIDER", "vertex")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERTEX_PROJECT_ID")
}
