package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
)

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "<not set>", maskToken(""))
	assert.Equal(t, "***", maskToken("short"))
	assert.Equal(t, "1234...wxyz", maskToken("1234:abcdefwxyz"))
}

func TestDescribeHidesSecrets(t *testing.T) {
	cfg := &config.Config{
		Telegram: config.TelegramConfig{Token: "123456:secret-token-value"},
		AI: config.AIConfig{
			Provider: config.ProviderGemini,
			Language: "Traditional Chinese",
			Gemini:   config.GeminiConfig{APIKey: "AIzaSyVerySecretKey", Model: "gemini-1.5-flash"},
		},
		Storage: config.StorageConfig{
			Driver: config.StoragePostgres,
			DB:     config.DBConfig{Host: "db", Port: "5432", User: "diary", Password: "hunter2hunter2", DBName: "nurture_diary"},
		},
		State: config.StateConfig{Driver: config.StateMemory},
	}

	out := strings.Join(describe(cfg), "\n")
	assert.NotContains(t, out, "secret-token")
	assert.NotContains(t, out, "VerySecret")
	assert.NotContains(t, out, "hunter2hunter2")
	assert.Contains(t, out, "Owner ID: <anyone>")
	assert.Contains(t, out, "DB: diary@db:5432/nurture_diary")
}
