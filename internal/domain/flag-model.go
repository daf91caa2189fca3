package domain

import "time"

// Flag rows are append-only, the latest row per key wins. Keeping history
// makes staff changes to the calendar auditable.
type Flag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(50);not null;index" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
