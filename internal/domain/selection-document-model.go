package domain

import (
	"path"
	"time"
)

const (
	DocPaymentProof = "payment_proof"
	DocStudentID    = "student_id"
)

type SelectionDocument struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SelectionID  uint      `gorm:"not null;index" json:"selection_id"`
	FileLocation string    `gorm:"type:text;not null" json:"file_location"`
	DocType      string    `gorm:"type:varchar(20);not null" json:"doc_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d SelectionDocument) Filename() string {
	return path.Base(d.FileLocation)
}
