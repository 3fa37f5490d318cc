package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageEntry is one persisted blob, keyed like "grillmaster_orders".
type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     []byte
	UpdatedAt time.Time
}

// KV stores persistence blobs in the storage_entries table.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

func (kv *KV) Get(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	var entry StorageEntry
	err := kv.db.Where(&StorageEntry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry.Value, true, nil
}

// Set inserts key or overwrites its value.
func (kv *KV) Set(key string, value []byte) error {
	entry := StorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return kv.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
