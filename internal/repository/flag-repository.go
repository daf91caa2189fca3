package repository

import (
	"errors"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"gorm.io/gorm"
)

// FlagRepository is the append-only key/value store behind the admissions
// calendar. Set inserts a new row; Get reads the latest row for a key.
type FlagRepository interface {
	SetFlag(key, value, createdBy string) error
	GetFlag(key string) (string, error)
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) SetFlag(key, value, createdBy string) error {
	return r.db.Create(&domain.Flag{Key: key, Value: value, CreatedBy: createdBy}).Error
}

// GetFlag returns "" when the key was never set.
func (r *flagRepository) GetFlag(key string) (string, error) {
	flag := &domain.Flag{}
	err := r.db.Where("key = ?", key).Order("created_at DESC, id DESC").Take(flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return flag.Value, nil
}
