package repository

import (
	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository is read-only from the admissions side: the profile data
// is owned by the profile-management service, the draw just consumes it.
type ProfileRepository interface {
	FindByCandidateID(candidateID uint) (*domain.Profile, error)
	SaveProfile(profile *domain.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByCandidateID(candidateID uint) (*domain.Profile, error) {
	profile := &domain.Profile{}

	if err := r.db.First(profile, "candidate_id = ?", candidateID).Error; err != nil {
		return nil, err
	}

	return profile, nil
}

// SaveProfile exists for seeding and tests only.
func (r *profileRepository) SaveProfile(profile *domain.Profile) error {
	return r.db.Save(profile).Error
}
