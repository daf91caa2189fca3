package services

import (
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
)

// AssignmentStatus doubles as the per-assignment and the folded overall
// application status.
type AssignmentStatus string

const (
	StatusNotStarted AssignmentStatus = "not_started"
	StatusOngoing    AssignmentStatus = "ongoing"
	StatusPassed     AssignmentStatus = "passed"
	StatusFailed     AssignmentStatus = "failed"
)

// submissionBuffer is the grace window added to the close date when deciding
// whether a submission may still come in: grading runs on an external
// service and its latency must not cost the candidate a valid attempt. It
// never affects the displayed status.
const submissionBuffer = 2 * time.Minute

// startDateFor maps an assignment type to its eligibility start. Only the
// coding test has a per-application start; everything else opens globally.
func startDateFor(app *domain.Application, at AssignmentType, cal CalendarDates) *time.Time {
	if at.UName == CodingTest.UName {
		return app.CodingTestStartedAt
	}
	opening := cal.OpeningDate
	return &opening
}

func endDateFor(app *domain.Application, at AssignmentType, cal CalendarDates, applyBuffer bool) time.Time {
	end := cal.ClosingDate
	if at.UName == CodingTest.UName && app.CodingTestStartedAt != nil {
		end = app.CodingTestStartedAt.Add(cal.CodingTestDuration)
	}
	if applyBuffer {
		end = end.Add(submissionBuffer)
	}
	return end
}

// assignmentStatus computes one assignment's status. A positive best score
// always wins, even when the window already closed: a late-graded passing
// submission must never read as failed. not_started is checked before the
// close date so an untouched coding test never reads as failed either.
func assignmentStatus(app *domain.Application, at AssignmentType, cal CalendarDates, bestScore *int, now time.Time) AssignmentStatus {
	if bestScore != nil && *bestScore >= at.PassScore {
		return StatusPassed
	}

	start := startDateFor(app, at, cal)
	if start == nil || start.After(now) {
		return StatusNotStarted
	}

	if now.After(endDateFor(app, at, cal, false)) {
		return StatusFailed
	}

	return StatusOngoing
}

// foldOverall folds per-assignment statuses into the overall application
// status. The precedence is a business rule, not an ordinal max: any failed
// assignment fails the application outright, a mix of passed and not yet
// started still reads as ongoing.
func foldOverall(perType map[string]AssignmentStatus) AssignmentStatus {
	anyOngoing := false
	allPassed := true
	allNotStarted := true

	for _, s := range perType {
		switch s {
		case StatusFailed:
			return StatusFailed
		case StatusOngoing:
			anyOngoing = true
		}
		if s != StatusPassed {
			allPassed = false
		}
		if s != StatusNotStarted {
			allNotStarted = false
		}
	}

	switch {
	case anyOngoing:
		return StatusOngoing
	case allPassed:
		return StatusPassed
	case allNotStarted:
		return StatusNotStarted
	default:
		// some passed, some not started
		return StatusOngoing
	}
}
