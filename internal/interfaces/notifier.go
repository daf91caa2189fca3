package interfaces

import "time"

// Notifier delivers candidate-facing mail. Every method is best-effort:
// callers log failures and keep going, a status write is never rolled back
// because a notification could not be delivered.
type Notifier interface {
	SendApplicationIsOverPassed(toEmail, toName string) error
	SendApplicationIsOverFailed(toEmail, toName string) error

	SendSelectedAndPaymentDetails(toEmail, toName string, paymentValue float64, paymentDueDate time.Time) error
	SendSelectedInterviewDetails(toEmail, toName string) error
	SendAdmissionsAreOverNotSelected(toEmail, toName string) error

	SendInterviewPassed(toEmail, toName string) error
	SendInterviewFailed(toEmail, toName, message string) error

	SendPaymentAccepted(toEmail, toName string) error
	SendPaymentRefused(toEmail, toName, message string) error
	SendPaymentNeedsAdditionalProof(toEmail, toName, message string) error
}
