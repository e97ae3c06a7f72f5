package quiz

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(ctx context.Context, r *QuizResult) error
	GetByID(ctx context.Context, id, userID string) (*QuizResult, error)
	ListByUser(ctx context.Context, userID string) ([]*QuizResult, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, res *QuizResult) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *resultRepository) GetByID(ctx context.Context, id, userID string) (*QuizResult, error) {
	var res QuizResult
	if err := r.db.WithContext(ctx).First(&res, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (r *resultRepository) ListByUser(ctx context.Context, userID string) ([]*QuizResult, error) {
	var results []*QuizResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
