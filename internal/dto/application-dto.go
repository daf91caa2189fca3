package dto

import "time"

type StartCodingTestResponse struct {
	StartedAt time.Time `json:"started_at"`
	EndsAt    time.Time `json:"ends_at"`
}

type ApplicationStatusResponse struct {
	Application string            `json:"application"`
	Assignments map[string]string `json:"assignments"`
}

type SubmissionResponse struct {
	SubmissionID uint   `json:"submission_id"`
	Score        int    `json:"score"`
	BestScore    int    `json:"best_score"`
	Passed       bool   `json:"passed"`
	Feedback     string `json:"feedback,omitempty"`
}
