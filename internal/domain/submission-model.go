package domain

import "time"

// Submission is one graded attempt. Rows are append-only: they are never
// updated or deleted, the best score is always an aggregate over them.
type Submission struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ApplicationID    uint      `gorm:"not null;index" json:"application_id"`
	SubmissionType   string    `gorm:"type:varchar(20);not null;index" json:"submission_type"`
	Score            int       `gorm:"not null;default:0" json:"score"`
	FileLocation     string    `gorm:"type:text;not null" json:"file_location"`
	FeedbackLocation string    `gorm:"type:text" json:"feedback_location"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}
