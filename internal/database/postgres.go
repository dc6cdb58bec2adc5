package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
	"github.com/vladimiradmaev/nurture-diary/internal/database/migrations"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Blob is one keyed document of the diary: the profile or the log collection.
type Blob struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Blob) TableName() string {
	return "diary_blobs"
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(migrations.Files); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed", "driver", "postgres", "db", cfg.DBName)
	return db, nil
}
