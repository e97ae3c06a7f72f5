package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityTypeQuiz ActivityType = "quiz"
)

type Activity struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_activity_lookup" json:"user_id"`
	ActivityType   ActivityType `gorm:"type:text;not null;uniqueIndex:idx_activity_lookup" json:"activity_type"`
	Topic          string       `gorm:"type:text;not null;uniqueIndex:idx_activity_lookup" json:"topic"`
	Reference      string       `gorm:"type:text;uniqueIndex:idx_activity_lookup" json:"reference,omitempty"`
	Score          int          `gorm:"not null;default:0" json:"score"`
	TotalQuestions int          `gorm:"not null;default:0" json:"total_questions"`
	CorrectAnswers int          `gorm:"not null;default:0" json:"correct_answers"`
	Attempts       int          `gorm:"not null;default:0" json:"attempts"`
	LastAttemptAt  *time.Time   `json:"last_attempt_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UpdateScore records one scored attempt. score is the percentage.
func (a *Activity) UpdateScore(score, total, correct int, at time.Time) {
	a.Score = score
	a.TotalQuestions = total
	a.CorrectAnswers = correct
	a.Attempts++
	a.LastAttemptAt = &at
}

// Filter selects a single activity. Zero-valued fields are ignored.
type Filter struct {
	UserID       uuid.UUID
	ActivityType ActivityType
	Topic        string
	Reference    string
}
