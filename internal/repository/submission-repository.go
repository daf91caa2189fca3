package repository

import (
	"errors"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAttemptCapReached reports that the per-assignment submission cap was
// hit inside the guarded insert.
var ErrAttemptCapReached = errors.New("attempt cap reached")

type SubmissionRepository interface {
	// CreateSubmissionCapped inserts the submission unless `limit` attempts
	// already exist for (application, type). Count and insert run in one
	// transaction on a locked application row so two concurrent attempts
	// cannot both pass the cap check.
	CreateSubmissionCapped(applicationID uint, submissionType string, limit int, sub *domain.Submission) error

	BestScore(applicationID uint, submissionType string) (*int, error)
	CountSubmissions(applicationID uint, submissionType string) (int64, error)
	ListSubmissions(applicationID uint, submissionType string) ([]domain.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateSubmissionCapped(applicationID uint, submissionType string, limit int, sub *domain.Submission) error {
	if sub == nil {
		return errors.New("nil submission")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// the lock clause only exists on postgres; sqlite serializes
		// writers on its own
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		app := &domain.Application{}
		if err := q.First(app, applicationID).Error; err != nil {
			return err
		}

		var n int64
		err := tx.Model(&domain.Submission{}).
			Where("application_id = ? AND submission_type = ?", applicationID, submissionType).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n >= int64(limit) {
			return ErrAttemptCapReached
		}

		sub.ApplicationID = applicationID
		sub.SubmissionType = submissionType
		return tx.Create(sub).Error
	})
}

// BestScore returns nil when no submission of that type exists yet.
func (r *submissionRepository) BestScore(applicationID uint, submissionType string) (*int, error) {
	var best *int
	err := r.db.Model(&domain.Submission{}).
		Where("application_id = ? AND submission_type = ?", applicationID, submissionType).
		Select("MAX(score)").
		Scan(&best).Error
	if err != nil {
		return nil, err
	}
	return best, nil
}

func (r *submissionRepository) CountSubmissions(applicationID uint, submissionType string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Submission{}).
		Where("application_id = ? AND submission_type = ?", applicationID, submissionType).
		Count(&n).Error
	return n, err
}

func (r *submissionRepository) ListSubmissions(applicationID uint, submissionType string) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.db.
		Where("application_id = ? AND submission_type = ?", applicationID, submissionType).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
