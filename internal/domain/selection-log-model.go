package domain

import "time"

// SelectionLog is the append-only audit trail of a Selection. Rows are
// write-only: created on every status change, document upload or note.
type SelectionLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SelectionID uint      `gorm:"not null;index" json:"selection_id"`
	Event       string    `gorm:"type:varchar(30);not null" json:"event"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
