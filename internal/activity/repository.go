package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	FindOne(ctx context.Context, f Filter) (*Activity, error)

	// Create is a no-op when an activity with the same lookup key exists.
	Create(ctx context.Context, a *Activity) error

	// Update persists a scored attempt. Attempts is incremented in the
	// database and a is reloaded, so concurrent attempts are all counted.
	Update(ctx context.Context, a *Activity) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Activity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOne(ctx context.Context, f Filter) (*Activity, error) {
	q := r.db.WithContext(ctx).Model(&Activity{})
	if f.UserID != uuid.Nil {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ActivityType != "" {
		q = q.Where("activity_type = ?", f.ActivityType)
	}
	if f.Topic != "" {
		q = q.Where("topic = ?", f.Topic)
	}
	if f.Reference != "" {
		q = q.Where("reference = ?", f.Reference)
	}

	var a Activity
	if err := q.First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, a *Activity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Activity{}).
			Where("id = ?", a.ID).
			UpdateColumns(map[string]interface{}{
				"score":           a.Score,
				"total_questions": a.TotalQuestions,
				"correct_answers": a.CorrectAnswers,
				"last_attempt_at": a.LastAttemptAt,
				"attempts":        gorm.Expr("attempts + 1"),
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(a, "id = ?", a.ID).Error
	})
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Activity, error) {
	var out []*Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
