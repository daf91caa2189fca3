package domain

import "time"

// Selection statuses. A candidate gets a Selection row once their
// application passed; the row then walks the pipeline below and is never
// deleted, even from a final status.
const (
	StatusPassedTest   = "passed_test"
	StatusDrawn        = "drawn"
	StatusInterview    = "interview"
	StatusSelected     = "selected"
	StatusToBeAccepted = "to_be_accepted"
	StatusAccepted     = "accepted"
	StatusRejected     = "rejected"
	StatusNotSelected  = "not_selected"
)

// AwaitingStatuses are candidates still waiting on a draw outcome.
var AwaitingStatuses = []string{StatusPassedTest, StatusDrawn}

// PositiveStatuses are candidates who are or have been selected. REJECTED
// belongs here because a record can only reach it after being SELECTED.
var PositiveStatuses = []string{StatusSelected, StatusToBeAccepted, StatusAccepted, StatusRejected}

// FinalStatuses permit no further transition.
var FinalStatuses = []string{StatusAccepted, StatusRejected, StatusNotSelected}

type Selection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	CandidateID uint   `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Status      string `gorm:"type:varchar(20);not null;default:passed_test" json:"status"`

	DrawRank *int `json:"draw_rank,omitempty"`

	PaymentValue   *float64   `json:"payment_value,omitempty"`
	TicketType     *string    `gorm:"type:varchar(25)" json:"ticket_type,omitempty"`
	PaymentDueDate *time.Time `json:"payment_due_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
