package services

import (
	"testing"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
)

func TestFoldOverall(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]AssignmentStatus
		want AssignmentStatus
	}{
		{
			name: "any failed wins",
			in: map[string]AssignmentStatus{
				"coding_test": StatusPassed,
				"slu01":       StatusFailed,
				"slu02":       StatusOngoing,
				"slu03":       StatusNotStarted,
			},
			want: StatusFailed,
		},
		{
			name: "any ongoing beats passed",
			in: map[string]AssignmentStatus{
				"coding_test": StatusPassed,
				"slu01":       StatusOngoing,
				"slu02":       StatusPassed,
				"slu03":       StatusPassed,
			},
			want: StatusOngoing,
		},
		{
			name: "all passed",
			in: map[string]AssignmentStatus{
				"coding_test": StatusPassed,
				"slu01":       StatusPassed,
				"slu02":       StatusPassed,
				"slu03":       StatusPassed,
			},
			want: StatusPassed,
		},
		{
			name: "all not started",
			in: map[string]AssignmentStatus{
				"coding_test": StatusNotStarted,
				"slu01":       StatusNotStarted,
				"slu02":       StatusNotStarted,
				"slu03":       StatusNotStarted,
			},
			want: StatusNotStarted,
		},
		{
			name: "passed and not started reads as ongoing",
			in: map[string]AssignmentStatus{
				"coding_test": StatusPassed,
				"slu01":       StatusNotStarted,
				"slu02":       StatusPassed,
				"slu03":       StatusNotStarted,
			},
			want: StatusOngoing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foldOverall(tt.in); got != tt.want {
				t.Errorf("foldOverall() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAssignmentStatus(t *testing.T) {
	now := fixedNow()
	cal := testCalendar(now).Snapshot
	started := now.Add(-10 * time.Minute)

	tests := []struct {
		name     string
		at       AssignmentType
		app      *domain.Application
		best     *int
		now      time.Time
		want     AssignmentStatus
	}{
		{
			name: "passing score wins even after close",
			at:   SLU01,
			app:  &domain.Application{},
			best: intPtr(80),
			now:  cal.ClosingDate.Add(24 * time.Hour),
			want: StatusPassed,
		},
		{
			name: "coding test not started reads not_started even after close",
			at:   CodingTest,
			app:  &domain.Application{},
			best: nil,
			now:  cal.ClosingDate.Add(24 * time.Hour),
			want: StatusNotStarted,
		},
		{
			name: "low score after close is failed",
			at:   SLU01,
			app:  &domain.Application{},
			best: intPtr(60),
			now:  cal.ClosingDate.Add(time.Minute),
			want: StatusFailed,
		},
		{
			name: "window open and below pass is ongoing",
			at:   SLU01,
			app:  &domain.Application{},
			best: intPtr(60),
			now:  now,
			want: StatusOngoing,
		},
		{
			name: "coding test started and still inside window",
			at:   CodingTest,
			app:  &domain.Application{CodingTestStartedAt: &started},
			best: nil,
			now:  now,
			want: StatusOngoing,
		},
		{
			name: "coding test window elapsed without pass",
			at:   CodingTest,
			app:  &domain.Application{CodingTestStartedAt: &started},
			best: intPtr(10),
			now:  started.Add(31 * time.Minute),
			want: StatusFailed,
		},
		{
			name: "before opening date is not_started",
			at:   SLU02,
			app:  &domain.Application{},
			best: nil,
			now:  cal.OpeningDate.Add(-time.Minute),
			want: StatusNotStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignmentStatus(tt.app, tt.at, cal, tt.best, tt.now)
			if got != tt.want {
				t.Errorf("assignmentStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSubmissionBufferExtendsWindow(t *testing.T) {
	now := fixedNow()
	cal := testCalendar(now).Snapshot
	app := &domain.Application{}

	end := endDateFor(app, SLU01, cal, true)
	if want := cal.ClosingDate.Add(2 * time.Minute); !end.Equal(want) {
		t.Errorf("buffered end = %v, want %v", end, want)
	}

	end = endDateFor(app, SLU01, cal, false)
	if !end.Equal(cal.ClosingDate) {
		t.Errorf("unbuffered end = %v, want %v", end, cal.ClosingDate)
	}
}
