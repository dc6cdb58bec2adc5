package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLiteBlobStore keeps blobs in the diary_blobs table of a SQLite database.
type SQLiteBlobStore struct {
	db *sql.DB
}

func NewSQLiteBlobStore(db *sql.DB) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: db}
}

func (s *SQLiteBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM diary_blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteBlobStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO diary_blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (s *SQLiteBlobStore) Close() error {
	return s.db.Close()
}
