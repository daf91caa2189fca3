package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/interfaces"
)

type gradeRequest struct {
	SubmissionType string `json:"submission_type"`
	FileLocation   string `json:"file_location"`
}

type gradeResponse struct {
	Score            int    `json:"score"`
	FeedbackLocation string `json:"feedback_location"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

var _ interfaces.Grader = (*Client)(nil)

// Grade runs the stored submission through the grading service and waits for
// the score. Grading runs the candidate's code, so the timeout is generous.
// Endpoint: POST /v1/grade
func (c *Client) Grade(ctx context.Context, submissionType string, fileLocation string) (*interfaces.GradeResult, error) {
	if c.apiKey == "" {
		return nil, errors.New("missing grader api key")
	}

	payload, err := json.Marshal(gradeRequest{
		SubmissionType: submissionType,
		FileLocation:   fileLocation,
	})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/v1/grade"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e gradeResponse
		if json.Unmarshal(body, &e) == nil && e.ErrorMessage != "" {
			return nil, fmt.Errorf("grader error (%d): %s", resp.StatusCode, e.ErrorMessage)
		}
		return nil, fmt.Errorf("grader http error (%d): %s", resp.StatusCode, string(body))
	}

	var out gradeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ErrorMessage != "" {
		return nil, errors.New(out.ErrorMessage)
	}

	return &interfaces.GradeResult{
		Score:            out.Score,
		FeedbackLocation: out.FeedbackLocation,
	}, nil
}
