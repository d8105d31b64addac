package repository

import (
	"errors"

	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	// FindByURL is the cache check. URL must already be normalized;
	// a miss returns (nil, nil), not an error.
	FindByURL(url string) (*model.QuizRecord, error)
	FindByID(id uint) (*model.QuizRecord, error)
	// Create assigns ID and CreatedAt. A unique-constraint violation on
	// URL (the lost side of a concurrent generate race) surfaces as
	// KindDuplicateURL.
	Create(record *model.QuizRecord) error
	// ListAll returns records newest-first without their raw HTML.
	ListAll() ([]model.QuizRecord, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) FindByURL(url string) (*model.QuizRecord, error) {
	var record model.QuizRecord
	err := r.db.Where("url = ?", url).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *quizRepository) FindByID(id uint) (*model.QuizRecord, error) {
	var record model.QuizRecord
	err := r.db.First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "quiz %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *quizRepository) Create(record *model.QuizRecord) error {
	err := r.db.Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(apperr.KindDuplicateURL, err, "a quiz for %s already exists", record.URL)
	}
	return err
}

func (r *quizRepository) ListAll() ([]model.QuizRecord, error) {
	var records []model.QuizRecord
	err := r.db.
		Select("id", "url", "title", "summary", "created_at").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
