package dto

import "time"

// DrawRequest overrides the server draw defaults. The quota fields are
// pointers so an explicit zero is distinguishable from an omitted field:
// a company quota of 0 bans company tickets outright.
type DrawRequest struct {
	NumberOfSeats   *int     `json:"number_of_seats" validate:"omitempty,gt=0"`
	MinFemaleQuota  *float64 `json:"min_female_quota" validate:"omitempty,gte=0,lte=1"`
	MaxCompanyQuota *float64 `json:"max_company_quota" validate:"omitempty,gte=0,lte=1"`
	Scholarship     bool     `json:"scholarship"`
}

type ManualStatusUpdateRequest struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message"`
}

type InterviewDecisionRequest struct {
	Action  string `json:"action" validate:"required,oneof=accept reject note"`
	Message string `json:"message"`
}

type PaymentDecisionRequest struct {
	Action  string `json:"action" validate:"required,oneof=accept reject ask_additional"`
	Message string `json:"message"`
}

type SetFlagRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type SelectionResponse struct {
	SelectionID    uint       `json:"selection_id"`
	CandidateID    uint       `json:"candidate_id"`
	Status         string     `json:"status"`
	DrawRank       *int       `json:"draw_rank,omitempty"`
	PaymentValue   *float64   `json:"payment_value,omitempty"`
	TicketType     *string    `json:"ticket_type,omitempty"`
	PaymentDueDate *time.Time `json:"payment_due_date,omitempty"`
}

// PoolStats is one pool's slice of the selections overview.
type PoolStats struct {
	DrawnCandidates            int `json:"drawn_candidates"`
	DrawnFemale                int `json:"drawn_female"`
	DrawnCompany               int `json:"drawn_company"`
	SelectedAcceptedCandidates int `json:"selected_accepted_candidates"`
	SelectedAcceptedFemale     int `json:"selected_accepted_female"`
	SelectedAcceptedCompany    int `json:"selected_accepted_company"`
	LeftOutCandidates          int `json:"left_out_candidates"`
}

type SelectionOverviewResponse struct {
	// Awaiting counts candidates still waiting on a draw outcome,
	// Positive those who are or have been selected, across both pools.
	Awaiting int64 `json:"awaiting"`
	Positive int64 `json:"positive"`

	Regular     PoolStats `json:"regular"`
	Scholarship PoolStats `json:"scholarship"`
}
