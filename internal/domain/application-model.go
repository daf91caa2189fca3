package domain

import "time"

const (
	ApplicationOverPassed = "passed"
	ApplicationOverFailed = "failed"
)

type Application struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	CandidateID uint `gorm:"uniqueIndex;not null" json:"candidate_id"`

	// set once on first coding-test download, never reset
	CodingTestStartedAt *time.Time `json:"coding_test_started_at,omitempty"`

	// write-once gate for the applications-over notification,
	// nil until the bulk finalize ran for this application
	ApplicationOverEmailSent *string `gorm:"type:varchar(10)" json:"application_over_email_sent,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
