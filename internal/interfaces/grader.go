package interfaces

import "context"

type GradeResult struct {
	Score            int
	FeedbackLocation string
}

// Grader hands a stored submission to the external grading service and
// returns the score it produced.
type Grader interface {
	Grade(ctx context.Context, submissionType string, fileLocation string) (*GradeResult, error)
}
