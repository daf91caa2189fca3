package repository

import (
	"errors"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
)

// PoolCounters are the running draw counters for one pool, seeded from the
// candidates already drawn or further along.
type PoolCounters struct {
	Total   int
	Female  int
	Company int
}

// DrawFilter narrows the random pick. Scholarship nil means either pool,
// which is the last fallback of a scholarship draw.
type DrawFilter struct {
	Scholarship      *bool
	ForbiddenGenders []string
	ForbiddenTickets []string
}

type SelectionRepository interface {
	GetOrCreate(candidateID uint) (*domain.Selection, error)
	FindByID(selectionID uint) (*domain.Selection, error)
	FindByCandidateID(candidateID uint) (*domain.Selection, error)
	SaveSelection(selection *domain.Selection) error

	FilterByStatusIn(statuses []string) ([]domain.Selection, error)
	CountByStatusIn(statuses []string) (int64, error)

	DrawPoolCounters(scholarship bool, statuses []string) (PoolCounters, error)
	MaxDrawRank(scholarship bool) (int, error)
	RandomPassedTest(filter DrawFilter) (*domain.Selection, error)

	CreateLog(entry *domain.SelectionLog) error
	ListLogs(selectionID uint) ([]domain.SelectionLog, error)

	CreateDocument(doc *domain.SelectionDocument) error
	ListDocuments(selectionID uint, docType string) ([]domain.SelectionDocument, error)

	PoolStats(scholarship bool) (drawn, drawnFemale, drawnCompany, afterDraw, afterDrawFemale, afterDrawCompany, leftOut int, err error)

	Transaction(fn func(txRepo SelectionRepository) error) error
}

type selectionRepository struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

func (r *selectionRepository) GetOrCreate(candidateID uint) (*domain.Selection, error) {
	selection := &domain.Selection{CandidateID: candidateID, Status: domain.StatusPassedTest}
	if err := r.db.Where("candidate_id = ?", candidateID).FirstOrCreate(selection).Error; err != nil {
		return nil, err
	}
	return selection, nil
}

func (r *selectionRepository) FindByID(selectionID uint) (*domain.Selection, error) {
	selection := &domain.Selection{}
	if err := r.db.First(selection, selectionID).Error; err != nil {
		return nil, err
	}
	return selection, nil
}

func (r *selectionRepository) FindByCandidateID(candidateID uint) (*domain.Selection, error) {
	selection := &domain.Selection{}
	if err := r.db.First(selection, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, err
	}
	return selection, nil
}

func (r *selectionRepository) SaveSelection(selection *domain.Selection) error {
	if selection == nil {
		return errors.New("nil selection")
	}
	return r.db.Save(selection).Error
}

func (r *selectionRepository) FilterByStatusIn(statuses []string) ([]domain.Selection, error) {
	var selections []domain.Selection
	err := r.db.
		Where("status IN ?", statuses).
		Order("id ASC").
		Find(&selections).Error
	if err != nil {
		return nil, err
	}
	return selections, nil
}

func (r *selectionRepository) CountByStatusIn(statuses []string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Selection{}).
		Where("status IN ?", statuses).
		Count(&n).Error
	return n, err
}

func (r *selectionRepository) poolScope(q *gorm.DB, scholarship bool) *gorm.DB {
	q = q.Joins("JOIN profiles ON profiles.candidate_id = selections.candidate_id")
	if scholarship {
		return q.Where("profiles.ticket_type = ?", domain.TicketScholarship)
	}
	return q.Where("profiles.ticket_type <> ?", domain.TicketScholarship)
}

func (r *selectionRepository) DrawPoolCounters(scholarship bool, statuses []string) (PoolCounters, error) {
	var row struct {
		Total   int
		Female  int
		Company int
	}

	q := r.db.Model(&domain.Selection{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN profiles.gender = ? THEN 1 ELSE 0 END), 0) AS female, "+
				"COALESCE(SUM(CASE WHEN profiles.ticket_type = ? THEN 1 ELSE 0 END), 0) AS company",
			domain.GenderFemale, domain.TicketCompany,
		).
		Where("selections.status IN ?", statuses)
	q = r.poolScope(q, scholarship)

	if err := q.Scan(&row).Error; err != nil {
		return PoolCounters{}, err
	}
	return PoolCounters{Total: row.Total, Female: row.Female, Company: row.Company}, nil
}

func (r *selectionRepository) MaxDrawRank(scholarship bool) (int, error) {
	var rank *int
	q := r.db.Model(&domain.Selection{}).Select("MAX(selections.draw_rank)")
	q = r.poolScope(q, scholarship)
	if err := q.Scan(&rank).Error; err != nil {
		return 0, err
	}
	if rank == nil {
		return 0, nil
	}
	return *rank, nil
}

// RandomPassedTest picks one eligible candidate uniformly at random, nil
// when the filtered pool is empty.
func (r *selectionRepository) RandomPassedTest(filter DrawFilter) (*domain.Selection, error) {
	q := r.db.Model(&domain.Selection{}).
		Joins("JOIN profiles ON profiles.candidate_id = selections.candidate_id").
		Where("selections.status = ?", domain.StatusPassedTest)

	if filter.Scholarship != nil {
		if *filter.Scholarship {
			q = q.Where("profiles.ticket_type = ?", domain.TicketScholarship)
		} else {
			q = q.Where("profiles.ticket_type <> ?", domain.TicketScholarship)
		}
	}
	if len(filter.ForbiddenGenders) > 0 {
		q = q.Where("profiles.gender NOT IN ?", filter.ForbiddenGenders)
	}
	if len(filter.ForbiddenTickets) > 0 {
		q = q.Where("profiles.ticket_type NOT IN ?", filter.ForbiddenTickets)
	}

	selection := &domain.Selection{}
	err := q.Order("RANDOM()").Take(selection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return selection, nil
}

func (r *selectionRepository) CreateLog(entry *domain.SelectionLog) error {
	if entry == nil {
		return errors.New("nil selection log")
	}
	return r.db.Create(entry).Error
}

func (r *selectionRepository) ListLogs(selectionID uint) ([]domain.SelectionLog, error) {
	var logs []domain.SelectionLog
	err := r.db.
		Where("selection_id = ?", selectionID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *selectionRepository) CreateDocument(doc *domain.SelectionDocument) error {
	if doc == nil {
		return errors.New("nil selection document")
	}
	return r.db.Create(doc).Error
}

func (r *selectionRepository) ListDocuments(selectionID uint, docType string) ([]domain.SelectionDocument, error) {
	var docs []domain.SelectionDocument
	err := r.db.
		Where("selection_id = ? AND doc_type = ?", selectionID, docType).
		Order("updated_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *selectionRepository) countPool(scholarship bool, statuses []string, extra func(*gorm.DB) *gorm.DB) (int, error) {
	var n int64
	q := r.db.Model(&domain.Selection{}).Where("selections.status IN ?", statuses)
	q = r.poolScope(q, scholarship)
	if extra != nil {
		q = extra(q)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *selectionRepository) PoolStats(scholarship bool) (drawn, drawnFemale, drawnCompany, afterDraw, afterDrawFemale, afterDrawCompany, leftOut int, err error) {
	female := func(q *gorm.DB) *gorm.DB { return q.Where("profiles.gender = ?", domain.GenderFemale) }
	company := func(q *gorm.DB) *gorm.DB { return q.Where("profiles.ticket_type = ?", domain.TicketCompany) }

	afterDrawStatuses := []string{domain.StatusInterview, domain.StatusSelected, domain.StatusToBeAccepted, domain.StatusAccepted}

	if drawn, err = r.countPool(scholarship, []string{domain.StatusDrawn}, nil); err != nil {
		return
	}
	if drawnFemale, err = r.countPool(scholarship, []string{domain.StatusDrawn}, female); err != nil {
		return
	}
	if drawnCompany, err = r.countPool(scholarship, []string{domain.StatusDrawn}, company); err != nil {
		return
	}
	if afterDraw, err = r.countPool(scholarship, afterDrawStatuses, nil); err != nil {
		return
	}
	if afterDrawFemale, err = r.countPool(scholarship, afterDrawStatuses, female); err != nil {
		return
	}
	if afterDrawCompany, err = r.countPool(scholarship, afterDrawStatuses, company); err != nil {
		return
	}
	leftOut, err = r.countPool(scholarship, []string{domain.StatusPassedTest}, nil)
	return
}

func (r *selectionRepository) Transaction(fn func(txRepo SelectionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&selectionRepository{db: tx})
	})
}
