package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is one multiple-choice item. CorrectAnswer is always one of Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
}

// Entry is a generated quiz held by a Store. Entries are never mutated after Put.
type Entry struct {
	Key       string
	Topic     string
	Level     Level
	Questions []Question
	CreatedAt time.Time
}

// CachedQuiz is the row shape used by GormStore.
type CachedQuiz struct {
	CacheKey  string         `gorm:"column:cache_key;primaryKey;type:text"`
	Topic     string         `gorm:"type:text;not null"`
	Level     string         `gorm:"type:text;not null"`
	Questions datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

func (CachedQuiz) TableName() string { return "cached_quizzes" }

// QuizResult is one scored submission in a learner's quiz history.
type QuizResult struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Topic          string         `gorm:"type:text;not null" json:"topic"`
	Difficulty     string         `gorm:"type:text" json:"difficulty"`
	CacheKey       string         `gorm:"type:text;index" json:"cache_key"`
	Score          int            `gorm:"not null" json:"score"`
	TotalQuestions int            `gorm:"not null" json:"total_questions"`
	Percentage     int            `gorm:"not null" json:"percentage"`
	Answers        datatypes.JSON `json:"answers,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (r *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
