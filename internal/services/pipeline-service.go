package services

import (
	"fmt"
	"log"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/interfaces"
	"github.com/bootcampcrew/admissions_service/internal/repository"
)

type PipelineService interface {
	// AdvanceDrawn moves every DRAWN selection one step forward. Scholarship
	// tickets owe an interview first; everyone else goes straight to payment.
	AdvanceDrawn(actor string) (int, error)

	// TriggerAdmissionsAreOver closes the season: everyone still waiting in
	// PASSED_TEST becomes NOT_SELECTED and hears about it.
	TriggerAdmissionsAreOver(actor string) (int, error)

	InterviewDecision(selectionID uint, decision, message, actor string) error
	PaymentDecision(selectionID uint, decision, message, actor string) error
}

// Interview and payment decision verbs, as posted by staff.
const (
	DecisionAccept        = "accept"
	DecisionReject        = "reject"
	DecisionNote          = "note"
	DecisionAskAdditional = "ask_additional"
)

type pipelineService struct {
	selRepo     repository.SelectionRepository
	profileRepo repository.ProfileRepository
	candRepo    repository.CandidateRepository
	calendar    Calendar
	notifier    interfaces.Notifier
	now         func() time.Time
}

func NewPipelineService(
	selRepo repository.SelectionRepository,
	profileRepo repository.ProfileRepository,
	candRepo repository.CandidateRepository,
	calendar Calendar,
	notifier interfaces.Notifier,
	now func() time.Time,
) PipelineService {
	if now == nil {
		now = time.Now
	}
	return &pipelineService{
		selRepo:     selRepo,
		profileRepo: profileRepo,
		candRepo:    candRepo,
		calendar:    calendar,
		notifier:    notifier,
		now:         now,
	}
}

// notify runs one Notifier call and logs instead of propagating: mail
// delivery never decides whether a status write stands.
func (s *pipelineService) notify(selectionID uint, send func(email, name string) error, candidateID uint) {
	candidate, err := s.candRepo.FindCandidateByID(candidateID)
	if err != nil {
		log.Printf("selection=%d: candidate lookup for notification failed: %v", selectionID, err)
		return
	}
	if err := send(candidate.Email, candidate.Name); err != nil {
		log.Printf("selection=%d: notification failed: %v", selectionID, err)
	}
}

func (s *pipelineService) AdvanceDrawn(actor string) (int, error) {
	drawn, err := s.selRepo.FilterByStatusIn([]string{domain.StatusDrawn})
	if err != nil {
		return 0, err
	}

	advanced := 0
	for i := range drawn {
		selection := &drawn[i]

		profile, err := s.profileRepo.FindByCandidateID(selection.CandidateID)
		if err != nil {
			return advanced, err
		}

		if profile.TicketType == domain.TicketScholarship {
			err = s.selRepo.Transaction(func(txRepo repository.SelectionRepository) error {
				return updateStatus(txRepo, selection, domain.StatusInterview, nil, actor, "")
			})
			if err != nil {
				return advanced, err
			}
			s.notify(selection.ID, s.notifier.SendSelectedInterviewDetails, selection.CandidateID)
		} else {
			err = s.selRepo.Transaction(func(txRepo repository.SelectionRepository) error {
				if err := updateStatus(txRepo, selection, domain.StatusSelected, nil, actor, ""); err != nil {
					return err
				}
				return loadPaymentData(txRepo, s.profileRepo, selection, s.now(), actor)
			})
			if err != nil {
				return advanced, err
			}
			s.notify(selection.ID, func(email, name string) error {
				return s.notifier.SendSelectedAndPaymentDetails(email, name, *selection.PaymentValue, *selection.PaymentDueDate)
			}, selection.CandidateID)
		}

		advanced++
	}

	return advanced, nil
}

func (s *pipelineService) TriggerAdmissionsAreOver(actor string) (int, error) {
	dates, err := s.calendar.Dates()
	if err != nil {
		return 0, err
	}
	if s.now().Before(dates.ClosingDate) {
		return 0, ErrAdmissionsStillOpen
	}

	// every candidate must have landed in a final status first
	open, err := s.selRepo.CountByStatusIn([]string{
		domain.StatusDrawn,
		domain.StatusInterview,
		domain.StatusSelected,
		domain.StatusToBeAccepted,
	})
	if err != nil {
		return 0, err
	}
	if open > 0 {
		return 0, fmt.Errorf("%w: %d remaining", ErrOpenSelectionsExist, open)
	}

	waiting, err := s.selRepo.FilterByStatusIn([]string{domain.StatusPassedTest})
	if err != nil {
		return 0, err
	}

	// every closing write and its audit row commit as one batch
	err = s.selRepo.Transaction(func(txRepo repository.SelectionRepository) error {
		for i := range waiting {
			if err := updateStatus(txRepo, &waiting[i], domain.StatusNotSelected, nil, actor, ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range waiting {
		s.notify(waiting[i].ID, s.notifier.SendAdmissionsAreOverNotSelected, waiting[i].CandidateID)
	}
	return len(waiting), nil
}

// InterviewDecision resolves an INTERVIEW selection. Accepting moves the
// candidate into the payment flow like any other draw; the price comes from
// their ticket type.
func (s *pipelineService) InterviewDecision(selectionID uint, decision, message, actor string) error {
	selection, err := s.selRepo.FindByID(selectionID)
	if err != nil {
		return err
	}
	if selection.Status != domain.StatusInterview {
		return fmt.Errorf("%w: interview decision in status %s", ErrInvalidTransition, selection.Status)
	}

	switch decision {
	case DecisionAccept:
		err = s.selRepo.Transaction(func(txRepo repository.SelectionRepository) error {
			if err := updateStatus(txRepo, selection, domain.StatusSelected, nil, actor, message); err != nil {
				return err
			}
			return loadPaymentData(txRepo, s.profileRepo, selection, s.now(), actor)
		})
		if err != nil {
			return err
		}
		s.notify(selection.ID, func(email, name string) error {
			return s.notifier.SendSelectedAndPaymentDetails(email, name, *selection.PaymentValue, *selection.PaymentDueDate)
		}, selection.CandidateID)
		s.notify(selection.ID, s.notifier.SendInterviewPassed, selection.CandidateID)
		return nil

	case DecisionReject:
		if err := updateStatus(s.selRepo, selection, domain.StatusRejected, nil, actor, message); err != nil {
			return err
		}
		s.notify(selection.ID, func(email, name string) error {
			return s.notifier.SendInterviewFailed(email, name, message)
		}, selection.CandidateID)
		return nil

	case DecisionNote:
		return logSelectionEvent(s.selRepo, selection.ID, EventNoteAdded, []logPair{{"note", message}}, actor)

	default:
		return fmt.Errorf("%w: unknown interview decision %q", ErrInvalidTransition, decision)
	}
}

// PaymentDecision resolves a TO_BE_ACCEPTED selection after staff reviewed
// the uploaded proof. Asking for more documents reopens the upload window.
func (s *pipelineService) PaymentDecision(selectionID uint, decision, message, actor string) error {
	selection, err := s.selRepo.FindByID(selectionID)
	if err != nil {
		return err
	}
	if selection.Status != domain.StatusToBeAccepted {
		return fmt.Errorf("%w: payment decision in status %s", ErrInvalidTransition, selection.Status)
	}

	switch decision {
	case DecisionAccept:
		if err := updateStatus(s.selRepo, selection, domain.StatusAccepted, nil, actor, message); err != nil {
			return err
		}
		s.notify(selection.ID, s.notifier.SendPaymentAccepted, selection.CandidateID)
		return nil

	case DecisionReject:
		if err := updateStatus(s.selRepo, selection, domain.StatusRejected, nil, actor, message); err != nil {
			return err
		}
		s.notify(selection.ID, func(email, name string) error {
			return s.notifier.SendPaymentRefused(email, name, message)
		}, selection.CandidateID)
		return nil

	case DecisionAskAdditional:
		if err := updateStatus(s.selRepo, selection, domain.StatusSelected, nil, actor, message); err != nil {
			return err
		}
		s.notify(selection.ID, func(email, name string) error {
			return s.notifier.SendPaymentNeedsAdditionalProof(email, name, message)
		}, selection.CandidateID)
		return nil

	default:
		return fmt.Errorf("%w: unknown payment decision %q", ErrInvalidTransition, decision)
	}
}
