package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/interfaces"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/google/uuid"
)

// Selection log event kinds.
const (
	EventStatusUpdated        = "status_updated"
	EventPaymentDataPopulated = "payment_data_populated"
	EventDocumentAdded        = "document_added"
	EventNoteAdded            = "note_added"
)

var eventLabels = map[string]string{
	EventStatusUpdated:        "[Status Updated]",
	EventPaymentDataPopulated: "[Payment Data Populated]",
	EventDocumentAdded:        "[Document Added]",
	EventNoteAdded:            "[Note Added]",
}

// priceTable maps ticket type to the seat price in EUR. Scholarship seats
// are free; they still walk the payment flow so the paper trail is uniform.
var priceTable = map[string]float64{
	domain.TicketStudent:     300,
	domain.TicketRegular:     500,
	domain.TicketCompany:     1500,
	domain.TicketScholarship: 0,
}

const paymentDueAfter = 48 * time.Hour

type logPair struct {
	key   string
	value string
}

// logSelectionEvent appends one audit row. The actor line distinguishes
// system-driven transitions from staff-driven ones.
func logSelectionEvent(repo repository.SelectionRepository, selectionID uint, event string, data []logPair, actor string) error {
	if actor == "" {
		actor = "system"
	}

	var b strings.Builder
	b.WriteString(eventLabels[event])
	for _, p := range data {
		b.WriteString("\n")
		b.WriteString(p.key)
		b.WriteString(": ")
		b.WriteString(p.value)
	}
	b.WriteString("\n---\ntriggered by ")
	b.WriteString(actor)

	return repo.CreateLog(&domain.SelectionLog{
		SelectionID: selectionID,
		Event:       event,
		Message:     b.String(),
	})
}

// updateStatus writes the status unconditionally and logs the edge. It runs
// against whatever repository scope the caller holds, so batch operations
// can pass their transaction-scoped repo.
func updateStatus(repo repository.SelectionRepository, selection *domain.Selection, newStatus string, drawRank *int, actor, msg string) error {
	oldStatus := selection.Status
	selection.Status = newStatus
	if drawRank != nil {
		selection.DrawRank = drawRank
	}

	if err := repo.SaveSelection(selection); err != nil {
		return err
	}

	data := []logPair{
		{"old-status", oldStatus},
		{"new-status", newStatus},
	}
	if drawRank != nil {
		data = append(data, logPair{"draw-rank", fmt.Sprintf("%d", *drawRank)})
	}
	if msg != "" {
		data = append(data, logPair{"message", msg})
	}

	return logSelectionEvent(repo, selection.ID, EventStatusUpdated, data, actor)
}

// loadPaymentData attaches ticket type, price and due date to a selection
// entering SELECTED.
func loadPaymentData(repo repository.SelectionRepository, profiles repository.ProfileRepository, selection *domain.Selection, now time.Time, actor string) error {
	profile, err := profiles.FindByCandidateID(selection.CandidateID)
	if err != nil {
		return err
	}

	oldTicket := ""
	if selection.TicketType != nil {
		oldTicket = *selection.TicketType
	}

	value := priceTable[profile.TicketType]
	due := now.Add(paymentDueAfter)

	selection.TicketType = &profile.TicketType
	selection.PaymentValue = &value
	selection.PaymentDueDate = &due
	if err := repo.SaveSelection(selection); err != nil {
		return err
	}

	return logSelectionEvent(repo, selection.ID, EventPaymentDataPopulated, []logPair{
		{"old-ticket-type", oldTicket},
		{"new-ticket-type", profile.TicketType},
		{"new-payment-value", fmt.Sprintf("%.0f", value)},
		{"payment-due-date", due.Format(time.RFC3339)},
	}, actor)
}

type SelectionService interface {
	Create(candidateID uint) (*domain.Selection, error)
	Get(selectionID uint) (*domain.Selection, error)
	GetByCandidate(candidateID uint) (*domain.Selection, error)

	ManualUpdateStatus(selectionID uint, status, actor, msg string) error
	RejectDraw(selectionID uint) error
	CanBeUpdated(selection *domain.Selection) bool

	AddDocument(ctx context.Context, candidateID uint, docType, filename string, data []byte) (*domain.SelectionDocument, error)
	SubmitDocumentsForReview(candidateID uint, actor string) error
	AddNote(selectionID uint, note, actor string) error

	Logs(selectionID uint) ([]domain.SelectionLog, error)
	Documents(candidateID uint, docType string) ([]domain.SelectionDocument, error)
	Overview() (*dto.SelectionOverviewResponse, error)
}

type selectionService struct {
	selRepo     repository.SelectionRepository
	profileRepo repository.ProfileRepository
	uploader    interfaces.Uploader
	now         func() time.Time
}

func NewSelectionService(
	selRepo repository.SelectionRepository,
	profileRepo repository.ProfileRepository,
	uploader interfaces.Uploader,
	now func() time.Time,
) SelectionService {
	if now == nil {
		now = time.Now
	}
	return &selectionService{
		selRepo:     selRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
		now:         now,
	}
}

func (s *selectionService) Create(candidateID uint) (*domain.Selection, error) {
	return s.selRepo.GetOrCreate(candidateID)
}

func (s *selectionService) Get(selectionID uint) (*domain.Selection, error) {
	return s.selRepo.FindByID(selectionID)
}

func (s *selectionService) GetByCandidate(candidateID uint) (*domain.Selection, error) {
	return s.selRepo.FindByCandidateID(candidateID)
}

func validStatus(status string) bool {
	switch status {
	case domain.StatusPassedTest, domain.StatusDrawn, domain.StatusInterview,
		domain.StatusSelected, domain.StatusToBeAccepted, domain.StatusAccepted,
		domain.StatusRejected, domain.StatusNotSelected:
		return true
	}
	return false
}

func (s *selectionService) ManualUpdateStatus(selectionID uint, status, actor, msg string) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	selection, err := s.selRepo.FindByID(selectionID)
	if err != nil {
		return err
	}

	return updateStatus(s.selRepo, selection, status, nil, actor, msg)
}

// RejectDraw frees a rank again: only a DRAWN record may go back to the
// waiting pool.
func (s *selectionService) RejectDraw(selectionID uint) error {
	selection, err := s.selRepo.FindByID(selectionID)
	if err != nil {
		return err
	}

	if selection.Status != domain.StatusDrawn {
		return fmt.Errorf("%w: can't reject draw in status %s", ErrInvalidTransition, selection.Status)
	}

	return updateStatus(s.selRepo, selection, domain.StatusPassedTest, nil, "", "")
}

func (s *selectionService) CanBeUpdated(selection *domain.Selection) bool {
	for _, final := range domain.FinalStatuses {
		if selection.Status == final {
			return false
		}
	}
	return true
}

func (s *selectionService) AddDocument(ctx context.Context, candidateID uint, docType, filename string, data []byte) (*domain.SelectionDocument, error) {
	selection, err := s.selRepo.FindByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}
	if !s.CanBeUpdated(selection) {
		return nil, ErrFrozen
	}

	key := fmt.Sprintf("%s-%s%s", docType, uuid.NewString(), filepath.Ext(filename))
	location, err := s.uploader.UploadBytes(ctx, fmt.Sprintf("payments/%d", candidateID), key, data)
	if err != nil {
		return nil, err
	}

	doc := &domain.SelectionDocument{
		SelectionID:  selection.ID,
		FileLocation: location,
		DocType:      docType,
	}
	if err := s.selRepo.CreateDocument(doc); err != nil {
		return nil, err
	}

	log.Printf("selection=%d: new %s document uploaded", selection.ID, docType)
	err = logSelectionEvent(s.selRepo, selection.ID, EventDocumentAdded, []logPair{
		{"doc-type", docType},
		{"doc-location", location},
	}, fmt.Sprintf("candidate %d", candidateID))
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// SubmitDocumentsForReview is the candidate handing their payment proof
// over for staff review.
func (s *selectionService) SubmitDocumentsForReview(candidateID uint, actor string) error {
	selection, err := s.selRepo.FindByCandidateID(candidateID)
	if err != nil {
		return err
	}
	if !s.CanBeUpdated(selection) {
		return ErrFrozen
	}

	return updateStatus(s.selRepo, selection, domain.StatusToBeAccepted, nil, actor, "")
}

func (s *selectionService) AddNote(selectionID uint, note, actor string) error {
	selection, err := s.selRepo.FindByID(selectionID)
	if err != nil {
		return err
	}
	return logSelectionEvent(s.selRepo, selection.ID, EventNoteAdded, []logPair{{"note", note}}, actor)
}

func (s *selectionService) Logs(selectionID uint) ([]domain.SelectionLog, error) {
	return s.selRepo.ListLogs(selectionID)
}

func (s *selectionService) Documents(candidateID uint, docType string) ([]domain.SelectionDocument, error) {
	selection, err := s.selRepo.FindByCandidateID(candidateID)
	if err != nil {
		return nil, err
	}
	return s.selRepo.ListDocuments(selection.ID, docType)
}

func (s *selectionService) Overview() (*dto.SelectionOverviewResponse, error) {
	awaiting, err := s.selRepo.CountByStatusIn(domain.AwaitingStatuses)
	if err != nil {
		return nil, err
	}
	positive, err := s.selRepo.CountByStatusIn(domain.PositiveStatuses)
	if err != nil {
		return nil, err
	}
	resp := &dto.SelectionOverviewResponse{Awaiting: awaiting, Positive: positive}

	for _, pool := range []struct {
		scholarship bool
		stats       *dto.PoolStats
	}{
		{false, &resp.Regular},
		{true, &resp.Scholarship},
	} {
		drawn, drawnF, drawnC, after, afterF, afterC, leftOut, err := s.selRepo.PoolStats(pool.scholarship)
		if err != nil {
			return nil, err
		}
		*pool.stats = dto.PoolStats{
			DrawnCandidates:            drawn,
			DrawnFemale:                drawnF,
			DrawnCompany:               drawnC,
			SelectedAcceptedCandidates: after,
			SelectedAcceptedFemale:     afterF,
			SelectedAcceptedCompany:    afterC,
			LeftOutCandidates:          leftOut,
		}
	}

	return resp, nil
}
