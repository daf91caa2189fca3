package dto

type RegisterCandidate struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required"`
	Gender     string `json:"gender" validate:"required,oneof=female male other"`
	TicketType string `json:"ticket_type" validate:"required,oneof=student regular company scholarship"`
}

type PaymentViewResponse struct {
	Selection SelectionResponse `json:"selection"`
	Documents []string          `json:"documents"`
}
