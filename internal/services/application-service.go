package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/interfaces"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/google/uuid"
)

// maxSubmissions is the per-(application, assignment) attempt cap. It is an
// abuse guard, not a grading rule: a pass on attempt 249 still counts.
const maxSubmissions = 250

type ApplicationService interface {
	GetOrCreate(candidateID uint) (*domain.Application, error)
	StartCodingTest(candidateID uint) (*dto.StartCodingTestResponse, error)
	DetailedStatus(candidateID uint) (*dto.ApplicationStatusResponse, error)

	CanAddSubmission(app *domain.Application, at AssignmentType) (bool, error)
	AddSubmission(app *domain.Application, at AssignmentType, sub *domain.Submission) error
	Submit(ctx context.Context, candidateID uint, assignmentUName, filename string, data []byte) (*dto.SubmissionResponse, error)
	Submissions(candidateID uint, assignmentUName string) ([]domain.Submission, error)

	Counts() (total int64, finalized int64, err error)
	FinalizeIfOver(app *domain.Application) error
	TriggerApplicationsAreOver() (int, error)
}

type applicationService struct {
	appRepo  repository.ApplicationRepository
	subRepo  repository.SubmissionRepository
	selRepo  repository.SelectionRepository
	candRepo repository.CandidateRepository

	calendar Calendar
	notifier interfaces.Notifier
	uploader interfaces.Uploader
	grader   interfaces.Grader

	now func() time.Time
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	subRepo repository.SubmissionRepository,
	selRepo repository.SelectionRepository,
	candRepo repository.CandidateRepository,
	calendar Calendar,
	notifier interfaces.Notifier,
	uploader interfaces.Uploader,
	grader interfaces.Grader,
	now func() time.Time,
) ApplicationService {
	if now == nil {
		now = time.Now
	}
	return &applicationService{
		appRepo:  appRepo,
		subRepo:  subRepo,
		selRepo:  selRepo,
		candRepo: candRepo,
		calendar: calendar,
		notifier: notifier,
		uploader: uploader,
		grader:   grader,
		now:      now,
	}
}

func (s *applicationService) GetOrCreate(candidateID uint) (*domain.Application, error) {
	return s.appRepo.GetOrCreateByCandidateID(candidateID)
}

// StartCodingTest stamps the coding-test start once. Re-starting returns the
// original window; the clock never resets.
func (s *applicationService) StartCodingTest(candidateID uint) (*dto.StartCodingTestResponse, error) {
	app, err := s.appRepo.GetOrCreateByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}

	cal, err := s.calendar.Dates()
	if err != nil {
		return nil, err
	}

	if app.CodingTestStartedAt == nil {
		if _, err := s.appRepo.MarkCodingTestStarted(app.ID, s.now()); err != nil {
			return nil, err
		}
		if app, err = s.appRepo.FindByID(app.ID); err != nil {
			return nil, err
		}
	}

	return &dto.StartCodingTestResponse{
		StartedAt: *app.CodingTestStartedAt,
		EndsAt:    app.CodingTestStartedAt.Add(cal.CodingTestDuration),
	}, nil
}

func (s *applicationService) bestScore(app *domain.Application, at AssignmentType) (*int, error) {
	return s.subRepo.BestScore(app.ID, at.UName)
}

func (s *applicationService) detailedStatus(app *domain.Application) (AssignmentStatus, map[string]AssignmentStatus, error) {
	cal, err := s.calendar.Dates()
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	perType := make(map[string]AssignmentStatus, len(AssignmentTypes))
	for _, at := range AssignmentTypes {
		best, err := s.bestScore(app, at)
		if err != nil {
			return "", nil, err
		}
		perType[at.UName] = assignmentStatus(app, at, cal, best, now)
	}

	return foldOverall(perType), perType, nil
}

func (s *applicationService) DetailedStatus(candidateID uint) (*dto.ApplicationStatusResponse, error) {
	app, err := s.appRepo.FindByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}

	overall, perType, err := s.detailedStatus(app)
	if err != nil {
		return nil, err
	}

	assignments := make(map[string]string, len(perType))
	for uname, status := range perType {
		assignments[uname] = string(status)
	}
	return &dto.ApplicationStatusResponse{Application: string(overall), Assignments: assignments}, nil
}

func (s *applicationService) CanAddSubmission(app *domain.Application, at AssignmentType) (bool, error) {
	cal, err := s.calendar.Dates()
	if err != nil {
		return false, err
	}

	now := s.now()
	start := startDateFor(app, at, cal)
	if start == nil {
		return false, nil
	}
	if now.Before(*start) {
		return false, nil
	}
	if now.After(endDateFor(app, at, cal, true)) {
		return false, nil
	}

	count, err := s.subRepo.CountSubmissions(app.ID, at.UName)
	if err != nil {
		return false, err
	}
	if count >= maxSubmissions {
		log.Printf("application=%d reached max submissions for %s", app.ID, at.UName)
		return false, nil
	}

	return true, nil
}

// AddSubmission is the only write path for submissions; nothing may insert
// a submission without passing the window and cap checks.
func (s *applicationService) AddSubmission(app *domain.Application, at AssignmentType, sub *domain.Submission) error {
	ok, err := s.CanAddSubmission(app, at)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubmissionRejected
	}

	err = s.subRepo.CreateSubmissionCapped(app.ID, at.UName, maxSubmissions, sub)
	if errors.Is(err, repository.ErrAttemptCapReached) {
		return ErrSubmissionRejected
	}
	return err
}

// Submit stores the uploaded file, hands it to the grading service and
// records the graded attempt.
func (s *applicationService) Submit(ctx context.Context, candidateID uint, assignmentUName, filename string, data []byte) (*dto.SubmissionResponse, error) {
	at, ok := AssignmentTypeByUName(assignmentUName)
	if !ok {
		return nil, fmt.Errorf("unknown assignment type %q", assignmentUName)
	}

	app, err := s.appRepo.GetOrCreateByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}

	// cheap pre-check so we don't upload files for a closed window; the
	// authoritative check runs again inside AddSubmission
	if ok, err := s.CanAddSubmission(app, at); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrSubmissionRejected
	}

	key := fmt.Sprintf("%s-%s%s", at.UName, uuid.NewString(), filepath.Ext(filename))
	location, err := s.uploader.UploadBytes(ctx, fmt.Sprintf("submissions/%d", candidateID), key, data)
	if err != nil {
		return nil, err
	}

	graded, err := s.grader.Grade(ctx, at.UName, location)
	if err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		Score:            graded.Score,
		FileLocation:     location,
		FeedbackLocation: graded.FeedbackLocation,
	}
	if err := s.AddSubmission(app, at, sub); err != nil {
		return nil, err
	}

	best, err := s.bestScore(app, at)
	if err != nil {
		return nil, err
	}

	return &dto.SubmissionResponse{
		SubmissionID: sub.ID,
		Score:        sub.Score,
		BestScore:    *best,
		Passed:       *best >= at.PassScore,
		Feedback:     graded.FeedbackLocation,
	}, nil
}

// Submissions lists a candidate's attempts for one assignment, newest
// first.
func (s *applicationService) Submissions(candidateID uint, assignmentUName string) ([]domain.Submission, error) {
	at, ok := AssignmentTypeByUName(assignmentUName)
	if !ok {
		return nil, fmt.Errorf("unknown assignment type %q", assignmentUName)
	}

	app, err := s.appRepo.FindByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}
	return s.subRepo.ListSubmissions(app.ID, at.UName)
}

// Counts reports how many applications exist and how many already carry
// their applications-over verdict.
func (s *applicationService) Counts() (int64, int64, error) {
	total, err := s.appRepo.Count()
	if err != nil {
		return 0, 0, err
	}
	finalized, err := s.appRepo.CountWithOverEmailSent()
	if err != nil {
		return 0, 0, err
	}
	return total, finalized, nil
}

func (s *applicationService) verdictFor(app *domain.Application) (string, error) {
	overall, _, err := s.detailedStatus(app)
	if err != nil {
		return "", err
	}
	if overall == StatusPassed {
		return domain.ApplicationOverPassed, nil
	}
	return domain.ApplicationOverFailed, nil
}

// sendVerdict is best-effort; a delivery failure never unwinds the verdict
// that was already committed.
func (s *applicationService) sendVerdict(app *domain.Application, verdict string) {
	candidate, err := s.candRepo.FindCandidateByID(app.CandidateID)
	if err != nil {
		log.Printf("application=%d: candidate lookup for notification failed: %v", app.ID, err)
		return
	}

	if verdict == domain.ApplicationOverPassed {
		if err := s.notifier.SendApplicationIsOverPassed(candidate.Email, candidate.Name); err != nil {
			log.Printf("application=%d: passed notification failed: %v", app.ID, err)
		}
	} else {
		if err := s.notifier.SendApplicationIsOverFailed(candidate.Email, candidate.Name); err != nil {
			log.Printf("application=%d: failed notification failed: %v", app.ID, err)
		}
	}
}

// FinalizeIfOver sends the applications-over verdict exactly once. The
// write-once field is what keeps a re-run of the bulk job from mailing
// anyone twice.
func (s *applicationService) FinalizeIfOver(app *domain.Application) error {
	if app.ApplicationOverEmailSent != nil {
		return ErrAlreadyFinalized
	}

	verdict, err := s.verdictFor(app)
	if err != nil {
		return err
	}

	app.ApplicationOverEmailSent = &verdict
	if err := s.appRepo.SaveApplication(app); err != nil {
		return err
	}

	s.sendVerdict(app, verdict)
	return nil
}

// TriggerApplicationsAreOver finalizes every application and opens a
// Selection for each one that passed. Verdicts are computed up front; all
// the writes then commit as a single transaction, so a mid-batch failure
// leaves nothing half-applied. Safe to re-run: already-finalized
// applications only get their selection re-checked.
func (s *applicationService) TriggerApplicationsAreOver() (int, error) {
	cal, err := s.calendar.Dates()
	if err != nil {
		return 0, err
	}
	if s.now().Before(cal.ClosingDate) {
		return 0, ErrAdmissionsStillOpen
	}

	apps, err := s.appRepo.All()
	if err != nil {
		return 0, err
	}

	type verdictItem struct {
		app     *domain.Application
		verdict string
		fresh   bool
	}
	items := make([]verdictItem, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		if app.ApplicationOverEmailSent != nil {
			items = append(items, verdictItem{app: app, verdict: *app.ApplicationOverEmailSent})
			continue
		}
		verdict, err := s.verdictFor(app)
		if err != nil {
			return 0, err
		}
		items = append(items, verdictItem{app: app, verdict: verdict, fresh: true})
	}

	err = s.appRepo.Transaction(func(txApp repository.ApplicationRepository, txSel repository.SelectionRepository) error {
		for _, it := range items {
			if it.fresh {
				verdict := it.verdict
				it.app.ApplicationOverEmailSent = &verdict
				if err := txApp.SaveApplication(it.app); err != nil {
					return err
				}
			}
			if it.verdict == domain.ApplicationOverPassed {
				if _, err := txSel.GetOrCreate(it.app.CandidateID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// notifications go out only once the batch committed
	finalized := 0
	for _, it := range items {
		if it.fresh {
			s.sendVerdict(it.app, it.verdict)
			finalized++
		}
	}

	log.Printf("applications-over: finalized %d applications", finalized)
	return finalized, nil
}
