package db

import (
	"time"

	"gorm.io/gorm"
)

type watchlistModel struct {
	ID        uint   `gorm:"primaryKey"`
	Symbol    string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// alertModel rows are never soft-deleted: a deleted row would still occupy
// the unique (symbol, alert_day) slot that Record's insert races on.
type alertModel struct {
	ID        uint   `gorm:"primaryKey"`
	Symbol    string `gorm:"uniqueIndex:idx_alert_models_symbol_day,priority:1;not null"`
	AlertDay  string `gorm:"uniqueIndex:idx_alert_models_symbol_day,priority:2;not null"`
	Kind      string `gorm:"not null"`
	Note      string
	CreatedAt time.Time
}
