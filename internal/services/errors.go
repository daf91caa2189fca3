package services

import "errors"

// Typed failures the handlers translate into HTTP errors. None of these is
// fatal; every one is recoverable at the call boundary.
var (
	// ErrSubmissionRejected covers closed/not-yet-open windows and the
	// attempt cap; shown to the candidate as a form error.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrAlreadyFinalized means the applications-over mail was already sent
	// for this application; the bulk job catches it and moves on.
	ErrAlreadyFinalized = errors.New("application already finalized")

	// ErrInvalidTransition is an illegal state-machine edge.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrFrozen is a mutation attempted on a selection in a final status.
	ErrFrozen = errors.New("selection is frozen")

	ErrAdmissionsStillOpen = errors.New("admissions are still open")
	ErrOpenSelectionsExist = errors.New("open selections exist, resolve drawn/selected candidates first")
)
