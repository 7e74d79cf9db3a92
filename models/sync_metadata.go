package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncMetadata records the outcome of the most recent PMS sync attempt for a
// property. One row per property, overwritten on every attempt.
type SyncMetadata struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PropertyID  string         `gorm:"size:64;not null;uniqueIndex" json:"property_id"`
	LastSync    time.Time      `json:"last_sync"`
	Result      SyncResult     `gorm:"size:32" json:"result"`
	SyncedCount int            `json:"synced_count"`
	Errors      datatypes.JSON `json:"errors"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
