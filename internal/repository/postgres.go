package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vladimiradmaev/nurture-diary/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresBlobStore keeps blobs in the diary_blobs table through GORM.
type PostgresBlobStore struct {
	db *gorm.DB
}

func NewPostgresBlobStore(db *gorm.DB) *PostgresBlobStore {
	return &PostgresBlobStore{db: db}
}

func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob database.Blob
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob.Value, nil
}

func (s *PostgresBlobStore) Put(ctx context.Context, key string, value []byte) error {
	blob := database.Blob{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&blob).Error
}

func (s *PostgresBlobStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
