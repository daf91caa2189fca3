package dto

// Notification event keys, used as the kafka message key so the mailer can
// route the payload to the right template.
const (
	EventApplicationOverPassed = "admissions.application_over_passed"
	EventApplicationOverFailed = "admissions.application_over_failed"
	EventSelectedPayment       = "admissions.selected_payment_details"
	EventSelectedInterview     = "admissions.selected_interview_details"
	EventNotSelected           = "admissions.not_selected"
	EventInterviewPassed       = "admissions.interview_passed"
	EventInterviewFailed       = "admissions.interview_failed"
	EventPaymentAccepted       = "admissions.payment_accepted"
	EventPaymentRefused        = "admissions.payment_refused"
	EventPaymentNeedsProof     = "admissions.payment_needs_additional_proof"
)

type NotificationEvent struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	PaymentValue   *float64 `json:"payment_value,omitempty"`
	PaymentDueDate string   `json:"payment_due_date,omitempty"`
	Message        string   `json:"message,omitempty"`
}
