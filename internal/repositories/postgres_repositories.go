package repositories

import (
	"context"
	"time"

	"bgc-cart-backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postgresStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgresStore(db *gorm.DB, ttl time.Duration) KeyValueStore {
	return &postgresStore{db: db, ttl: ttl, now: time.Now}
}

func (r *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := r.db.WithContext(ctx).
		Where("key = ? AND (expires_at IS NULL OR expires_at > ?)", key, r.now()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *postgresStore) Set(ctx context.Context, key, value string) error {
	entry := models.SessionEntry{Key: key, Value: value}
	if r.ttl > 0 {
		expires := r.now().Add(r.ttl)
		entry.ExpiresAt = &expires
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (r *postgresStore) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SessionEntry{}).Error
}

// PurgeExpiredEntries deletes rows whose TTL has passed.
func PurgeExpiredEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).Delete(&models.SessionEntry{})
	return res.RowsAffected, res.Error
}
