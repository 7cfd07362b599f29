package models

import "time"

type SyncStatus string

const (
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncLog is an append-only audit record. One row is written per import
// attempt, success or failure.
type SyncLog struct {
	ID             string     `gorm:"primarykey" json:"id"`
	Provider       string     `gorm:"index;not null" json:"provider"`
	SyncType       string     `gorm:"not null" json:"sync_type"`
	RecordsAdded   int        `gorm:"not null;default:0" json:"records_added"`
	RecordsUpdated int        `gorm:"not null;default:0" json:"records_updated"`
	Status         SyncStatus `gorm:"index;not null" json:"status"`
	ErrorMessage   string     `json:"error_message"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (SyncLog) TableName() string {
	return "data_sync_logs"
}
