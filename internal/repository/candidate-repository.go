package repository

import (
	"errors"
	"log"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	CreateCandidate(candidate *domain.Candidate) (*domain.Candidate, error)
	FindCandidateByID(candidateID uint) (*domain.Candidate, error)
	FindCandidateByEmail(email string) (*domain.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) CreateCandidate(candidate *domain.Candidate) (*domain.Candidate, error) {
	if candidate == nil {
		return nil, errors.New("nil candidate")
	}

	if err := r.db.Create(candidate).Error; err != nil {
		log.Printf("create candidate error: %v", err)
		return nil, errors.New("failed to create candidate")
	}

	return candidate, nil
}

func (r *candidateRepository) FindCandidateByID(candidateID uint) (*domain.Candidate, error) {
	candidate := &domain.Candidate{}

	if err := r.db.First(candidate, candidateID).Error; err != nil {
		return nil, err
	}

	return candidate, nil
}

func (r *candidateRepository) FindCandidateByEmail(email string) (*domain.Candidate, error) {
	candidate := &domain.Candidate{}

	if err := r.db.First(candidate, "email = ?", email).Error; err != nil {
		return nil, err
	}

	return candidate, nil
}
