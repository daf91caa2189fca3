package repository

import (
	"errors"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	GetOrCreateByCandidateID(candidateID uint) (*domain.Application, error)
	FindByID(applicationID uint) (*domain.Application, error)
	FindByCandidateID(candidateID uint) (*domain.Application, error)
	SaveApplication(app *domain.Application) error

	// MarkCodingTestStarted sets coding_test_started_at once; a second call
	// leaves the original timestamp untouched and reports false.
	MarkCodingTestStarted(applicationID uint, startedAt time.Time) (bool, error)

	All() ([]domain.Application, error)
	Count() (int64, error)
	CountWithOverEmailSent() (int64, error)

	// Transaction hands fn transaction-scoped application and selection
	// repositories. The bulk finalize writes both tables and must commit
	// or roll back as one unit.
	Transaction(fn func(txApp ApplicationRepository, txSel SelectionRepository) error) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) GetOrCreateByCandidateID(candidateID uint) (*domain.Application, error) {
	app := &domain.Application{CandidateID: candidateID}
	if err := r.db.Where("candidate_id = ?", candidateID).FirstOrCreate(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) FindByID(applicationID uint) (*domain.Application, error) {
	app := &domain.Application{}
	if err := r.db.First(app, applicationID).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) FindByCandidateID(candidateID uint) (*domain.Application, error) {
	app := &domain.Application{}
	if err := r.db.First(app, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) SaveApplication(app *domain.Application) error {
	if app == nil {
		return errors.New("nil application")
	}
	return r.db.Save(app).Error
}

func (r *applicationRepository) MarkCodingTestStarted(applicationID uint, startedAt time.Time) (bool, error) {
	res := r.db.Model(&domain.Application{}).
		Where("id = ? AND coding_test_started_at IS NULL", applicationID).
		Update("coding_test_started_at", startedAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *applicationRepository) All() ([]domain.Application, error) {
	var apps []domain.Application
	if err := r.db.Order("id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).Count(&n).Error
	return n, err
}

func (r *applicationRepository) CountWithOverEmailSent() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Where("application_over_email_sent IS NOT NULL").
		Count(&n).Error
	return n, err
}

func (r *applicationRepository) Transaction(fn func(txApp ApplicationRepository, txSel SelectionRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewApplicationRepository(tx), NewSelectionRepository(tx))
	})
}

