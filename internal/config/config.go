package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"

	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"

	StateMemory = "memory"
	StateRedis  = "redis"
)

type Config struct {
	Telegram TelegramConfig
	AI       AIConfig
	Storage  StorageConfig
	State    StateConfig
	Logger   LoggerConfig
}

type TelegramConfig struct {
	Token   string
	OwnerID int64
}

type AIConfig struct {
	Provider string
	Language string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Vertex   VertexConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type VertexConfig struct {
	ProjectID       string
	Location        string
	CredentialsFile string
	Model           string
}

type StorageConfig struct {
	Driver     string
	Path       string
	SQLitePath string
	Redis      RedisConfig
	DB         DBConfig
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type StateConfig struct {
	Driver string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func (c LoggerConfig) ToLogger() logger.Config {
	return logger.Config{Level: c.Level, OutputPath: c.OutputPath, Format: c.Format}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	ownerRaw := os.Getenv("TELEGRAM_OWNER_ID")
	var ownerID int64
	var ownerErr error
	if ownerRaw != "" {
		ownerID, ownerErr = strconv.ParseInt(ownerRaw, 10, 64)
		if ownerErr != nil {
			ownerErr = fmt.Errorf("TELEGRAM_OWNER_ID must be a number: %q", ownerRaw)
		}
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
			OwnerID: ownerID,
		},
		AI: AIConfig{
			Provider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini)),
			Language: getEnvOrDefault("AI_LANGUAGE", "Traditional Chinese"),
			Gemini: GeminiConfig{
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			},
			OpenAI: OpenAIConfig{
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Vertex: VertexConfig{
				ProjectID:       os.Getenv("VERTEX_PROJECT_ID"),
				Location:        getEnvOrDefault("VERTEX_LOCATION", "us-central1"),
				CredentialsFile: os.Getenv("VERTEX_CREDENTIALS_FILE"),
				Model:           getEnvOrDefault("VERTEX_MODEL", "gemini-1.5-flash"),
			},
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageFile)),
			Path:       getEnvOrDefault("STORAGE_PATH", "data"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/nurture.db"),
			Redis: RedisConfig{
				Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
				Port:     getEnvOrDefault("REDIS_PORT", "6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
			},
			DB: DBConfig{
				Host:     getEnvOrDefault("DB_HOST", "localhost"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				User:     getEnvOrDefault("DB_USER", "postgres"),
				Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrDefault("DB_NAME", "nurture_diary"),
			},
		},
		State: StateConfig{
			Driver: strings.ToLower(getEnvOrDefault("STATE_DRIVER", StateMemory)),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := errors.Join(ownerErr, cfg.Validate()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.Gemini.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if c.AI.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case ProviderVertex:
		if c.AI.Vertex.ProjectID == "" {
			errs = append(errs, errors.New("VERTEX_PROJECT_ID is required for the vertex provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AI_PROVIDER %q", c.AI.Provider))
	}

	switch c.Storage.Driver {
	case StorageFile, StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite storage driver"))
		}
	case StoragePostgres:
		if c.Storage.DB.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required for the postgres storage driver"))
		}
	case StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}

	if c.State.Driver != StateMemory && c.State.Driver != StateRedis {
		errs = append(errs, fmt.Errorf("unknown STATE_DRIVER %q", c.State.Driver))
	}

	if f := c.Logger.Format; f != "json" && f != "text" {
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", f))
	}

	return errors.Join(errs...)
}
