package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
)

// Blob keys, one per independently stored document.
const (
	ProfileKey = "nurture_user"
	LogsKey    = "nurture_all_logs"
)

// DiaryRepository serializes the profile and the log collection into a BlobStore.
type DiaryRepository struct {
	store BlobStore
}

func NewDiaryRepository(store BlobStore) *DiaryRepository {
	return &DiaryRepository{store: store}
}

// LoadProfile returns the stored profile; found is false when none was saved yet.
func (r *DiaryRepository) LoadProfile(ctx context.Context) (domain.UserProfile, bool, error) {
	var profile domain.UserProfile
	found, err := r.load(ctx, ProfileKey, &profile)
	if err != nil || !found {
		return domain.UserProfile{}, false, err
	}
	return profile, true, nil
}

func (r *DiaryRepository) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	return r.save(ctx, ProfileKey, profile)
}

// LoadLogs returns the whole history, empty when nothing was saved yet.
func (r *DiaryRepository) LoadLogs(ctx context.Context) (domain.LogCollection, error) {
	logs := domain.LogCollection{}
	if _, err := r.load(ctx, LogsKey, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = domain.LogCollection{}
	}
	for date, l := range logs {
		if l.Date == "" {
			l.Date = date
		}
		l.Normalize()
		logs[date] = l
	}
	return logs, nil
}

func (r *DiaryRepository) SaveLogs(ctx context.Context, logs domain.LogCollection) error {
	return r.save(ctx, LogsKey, logs)
}

func (r *DiaryRepository) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewPersistenceError(err, "load "+key)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, apperrors.NewPersistenceError(fmt.Errorf("decode: %w", err), "load "+key)
	}
	return true, nil
}

func (r *DiaryRepository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewPersistenceError(fmt.Errorf("encode: %w", err), "save "+key)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return apperrors.NewPersistenceError(err, "save "+key)
	}
	return nil
}

// Close releases the underlying store.
func (r *DiaryRepository) Close() error {
	return r.store.Close()
}
