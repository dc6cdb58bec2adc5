package repository

import (
	"fmt"

	"github.com/vladimiradmaev/nurture-diary/internal/config"
	"github.com/vladimiradmaev/nurture-diary/internal/database"
)

// Open builds the BlobStore selected by cfg.Driver.
func Open(cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		return NewFileBlobStore(cfg.Path)
	case config.StorageMemory:
		return NewMemoryBlobStore(), nil
	case config.StorageSQLite:
		db, err := database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteBlobStore(db), nil
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		return NewPostgresBlobStore(db), nil
	case config.StorageRedis:
		client, err := database.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisBlobStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
