package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/interfaces"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// a second pooled connection would get its own empty :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.Candidate{},
		&domain.Profile{},
		&domain.Application{},
		&domain.Submission{},
		&domain.Selection{},
		&domain.SelectionLog{},
		&domain.SelectionDocument{},
		&domain.Flag{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// testRepos bundles one repository per table over the same test db.
type testRepos struct {
	db      *gorm.DB
	cand    repository.CandidateRepository
	profile repository.ProfileRepository
	app     repository.ApplicationRepository
	sub     repository.SubmissionRepository
	sel     repository.SelectionRepository
	flag    repository.FlagRepository
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	db := setupTestDB(t)
	return &testRepos{
		db:      db,
		cand:    repository.NewCandidateRepository(db),
		profile: repository.NewProfileRepository(db),
		app:     repository.NewApplicationRepository(db),
		sub:     repository.NewSubmissionRepository(db),
		sel:     repository.NewSelectionRepository(db),
		flag:    repository.NewFlagRepository(db),
	}
}

var candidateSeq int

func (r *testRepos) seedCandidate(t *testing.T, gender, ticket string) *domain.Candidate {
	t.Helper()

	candidateSeq++
	candidate, err := r.cand.CreateCandidate(&domain.Candidate{
		Email: fmt.Sprintf("candidate%d@example.com", candidateSeq),
		Name:  fmt.Sprintf("Candidate %d", candidateSeq),
	})
	if err != nil {
		t.Fatalf("seed candidate: %v", err)
	}

	err = r.profile.SaveProfile(&domain.Profile{
		CandidateID: candidate.ID,
		Gender:      gender,
		TicketType:  ticket,
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	return candidate
}

// seedSelection seeds a candidate with a selection already in the given
// status.
func (r *testRepos) seedSelection(t *testing.T, gender, ticket, status string) *domain.Selection {
	t.Helper()

	candidate := r.seedCandidate(t, gender, ticket)
	selection, err := r.sel.GetOrCreate(candidate.ID)
	if err != nil {
		t.Fatalf("seed selection: %v", err)
	}
	if status != domain.StatusPassedTest {
		selection.Status = status
		if err := r.sel.SaveSelection(selection); err != nil {
			t.Fatalf("seed selection status: %v", err)
		}
	}
	return selection
}

// fakeNotifier records every delivery as "kind:email".
type fakeNotifier struct {
	sent []string
	fail bool
}

func (n *fakeNotifier) record(kind, email string) error {
	if n.fail {
		return fmt.Errorf("notifier down")
	}
	n.sent = append(n.sent, kind+":"+email)
	return nil
}

func (n *fakeNotifier) SendApplicationIsOverPassed(toEmail, toName string) error {
	return n.record("application_over_passed", toEmail)
}
func (n *fakeNotifier) SendApplicationIsOverFailed(toEmail, toName string) error {
	return n.record("application_over_failed", toEmail)
}
func (n *fakeNotifier) SendSelectedAndPaymentDetails(toEmail, toName string, paymentValue float64, paymentDueDate time.Time) error {
	return n.record("selected_payment", toEmail)
}
func (n *fakeNotifier) SendSelectedInterviewDetails(toEmail, toName string) error {
	return n.record("selected_interview", toEmail)
}
func (n *fakeNotifier) SendAdmissionsAreOverNotSelected(toEmail, toName string) error {
	return n.record("not_selected", toEmail)
}
func (n *fakeNotifier) SendInterviewPassed(toEmail, toName string) error {
	return n.record("interview_passed", toEmail)
}
func (n *fakeNotifier) SendInterviewFailed(toEmail, toName, message string) error {
	return n.record("interview_failed", toEmail)
}
func (n *fakeNotifier) SendPaymentAccepted(toEmail, toName string) error {
	return n.record("payment_accepted", toEmail)
}
func (n *fakeNotifier) SendPaymentRefused(toEmail, toName, message string) error {
	return n.record("payment_refused", toEmail)
}
func (n *fakeNotifier) SendPaymentNeedsAdditionalProof(toEmail, toName, message string) error {
	return n.record("payment_needs_proof", toEmail)
}

func (n *fakeNotifier) count(kind string) int {
	c := 0
	for _, s := range n.sent {
		if len(s) >= len(kind) && s[:len(kind)] == kind {
			c++
		}
	}
	return c
}

// fakeUploader returns a deterministic location without touching the
// network.
type fakeUploader struct {
	uploads int
}

func (u *fakeUploader) UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error) {
	u.uploads++
	return fmt.Sprintf("https://files.test/%s/%s", folder, filename), nil
}

// fakeGrader scores every submission with the configured score.
type fakeGrader struct {
	score int
}

func (g *fakeGrader) Grade(ctx context.Context, submissionType string, fileLocation string) (*interfaces.GradeResult, error) {
	return &interfaces.GradeResult{
		Score:            g.score,
		FeedbackLocation: fileLocation + ".feedback",
	}, nil
}

// testCalendar builds a fixed calendar around now: applications opened an
// hour ago and close in an hour, coding tests run 30 minutes.
func testCalendar(now time.Time) FixedCalendar {
	return FixedCalendar{Snapshot: CalendarDates{
		OpeningDate:        now.Add(-time.Hour),
		ClosingDate:        now.Add(time.Hour),
		CodingTestDuration: 30 * time.Minute,
	}}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }
