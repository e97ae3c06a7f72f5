package activity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"github.com/sirupsen/logrus"
)

// QuizAttempt is one scored quiz submission.
type QuizAttempt struct {
	UserID         uuid.UUID
	Topic          string
	CacheKey       string
	Percentage     int
	TotalQuestions int
	CorrectAnswers int
}

type Service interface {
	RecordQuizAttempt(ctx context.Context, attempt QuizAttempt) (*Activity, error)
	UpdateScore(ctx context.Context, a *Activity, score, total, correct int) (*Activity, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Activity, error)
}

type service struct {
	repo  Repository
	clock util.Clock
}

func NewService(repo Repository, clock util.Clock) Service {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &service{repo: repo, clock: clock}
}

// RecordQuizAttempt upserts the activity keyed by (user, quiz, topic, cache key)
// so repeated submissions against one cached quiz update a single row.
func (s *service) RecordQuizAttempt(ctx context.Context, attempt QuizAttempt) (*Activity, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"topic":     attempt.Topic,
		"cache_key": attempt.CacheKey,
	})

	filter := Filter{
		UserID:       attempt.UserID,
		ActivityType: ActivityTypeQuiz,
		Topic:        attempt.Topic,
		Reference:    attempt.CacheKey,
	}

	a, err := s.repo.FindOne(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to look up quiz activity")
		return nil, err
	}

	if a == nil {
		a = &Activity{
			UserID:       attempt.UserID,
			ActivityType: ActivityTypeQuiz,
			Topic:        attempt.Topic,
			Reference:    attempt.CacheKey,
		}
		if err := s.repo.Create(ctx, a); err != nil {
			log.WithError(err).Error("Failed to create quiz activity")
			return nil, err
		}

		// Reload: a concurrent submit may have inserted the row first.
		a, err = s.repo.FindOne(ctx, filter)
		if err != nil {
			log.WithError(err).Error("Failed to reload quiz activity")
			return nil, err
		}
		if a == nil {
			log.Error("Quiz activity missing after create")
			return nil, errors.New("quiz activity missing after create")
		}
		log.WithField("activity_id", a.ID).Debug("Quiz activity ready")
	}

	return s.UpdateScore(ctx, a, attempt.Percentage, attempt.TotalQuestions, attempt.CorrectAnswers)
}

func (s *service) UpdateScore(ctx context.Context, a *Activity, score, total, correct int) (*Activity, error) {
	a.UpdateScore(score, total, correct, s.clock.Now())
	if err := s.repo.Update(ctx, a); err != nil {
		config.WithContext(ctx).WithError(err).WithField("activity_id", a.ID).Error("Failed to persist activity score")
		return nil, err
	}
	return a, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Activity, error) {
	activities, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list activities")
		return nil, err
	}
	return activities, nil
}
