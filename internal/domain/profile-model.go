package domain

import "time"

const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

const (
	TicketStudent     = "student"
	TicketRegular     = "regular"
	TicketCompany     = "company"
	TicketScholarship = "scholarship"
)

// Profile carries the demographic inputs the draw reads. It is owned by the
// profile-management side; the admissions code only ever reads it.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CandidateID uint      `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"`
	TicketType  string    `gorm:"type:varchar(15);not null" json:"ticket_type"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
