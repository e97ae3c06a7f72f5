package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath-lambda/internal/activity"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/saulo-duarte/learnpath-lambda/internal/llm"
	"github.com/saulo-duarte/learnpath-lambda/internal/user"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type QuizService interface {
	GenerateQuiz(ctx context.Context, userID string, req GenerateQuizRequest) (*GenerateQuizResponse, error)
	SubmitQuiz(ctx context.Context, userID string, req SubmitQuizRequest) (*SubmitQuizResponse, error)
	ListResults(ctx context.Context, userID string) ([]*QuizResult, error)
	GetResult(ctx context.Context, userID, id string) (*QuizResult, error)
}

type Deps struct {
	Users      user.UserRepository
	Activities activity.Service
	Results    ResultRepository
	Store      Store
	Provider   llm.Provider

	// Sealer enables session tokens when non-nil.
	Sealer Sealer
	Clock  util.Clock
}

type quizService struct {
	users      user.UserRepository
	activities activity.Service
	results    ResultRepository
	store      Store
	provider   llm.Provider
	sealer     Sealer
	clock      util.Clock
	cfg        Config

	flights singleflight.Group
	seed    func(topic string, count int, now time.Time) string
}

func NewService(deps Deps, cfg Config) QuizService {
	clock := deps.Clock
	if clock == nil {
		clock = util.SystemClock{}
	}
	if cfg.DefaultQuestions == 0 {
		cfg.DefaultQuestions = DefaultConfig().DefaultQuestions
	}
	return &quizService{
		users:      deps.Users,
		activities: deps.Activities,
		results:    deps.Results,
		store:      deps.Store,
		provider:   deps.Provider,
		sealer:     deps.Sealer,
		clock:      clock,
		cfg:        cfg,
		seed:       newSeed,
	}
}

type flightResult struct {
	entry  *Entry
	cached bool
}

func (s *quizService) GenerateQuiz(ctx context.Context, userID string, req GenerateQuizRequest) (*GenerateQuizResponse, error) {
	topic, err := normalizeTopic(req.Topic)
	if err != nil {
		return nil, err
	}

	u, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := s.questionCount(req.NumberOfQuestions)
	diff := ResolveDifficulty(req.ManualDifficulty, u.EducationLevel)
	key := CacheKey(topic, count, diff.Level)

	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"cache_key":  key,
		"difficulty": diff.Level,
	})

	res, err := s.loadOrGenerate(ctx, key, topic, count, diff)
	if err != nil {
		log.WithError(err).Error("Quiz generation failed")
		return nil, err
	}
	log.WithField("cached", res.cached).Info("Quiz served")

	resp := &GenerateQuizResponse{
		Questions:             res.entry.Questions,
		Difficulty:            diff.Level,
		DifficultyDescription: diff.Description,
		CacheKey:              key,
		Cached:                res.cached,
	}
	if diff.AutoResolved {
		resp.EducationLevel = u.EducationLevel
	}

	if s.sealer != nil {
		token, err := sealSession(s.sealer, session{
			Key:      key,
			UserID:   userID,
			Topic:    topic,
			Level:    diff.Level,
			IssuedAt: s.clock.Now().Unix(),
		})
		if err != nil {
			log.WithError(err).Warn("Failed to seal quiz session token")
		} else {
			resp.SessionToken = token
		}
	}

	return resp, nil
}

func (s *quizService) loadOrGenerate(ctx context.Context, key, topic string, count int, diff Difficulty) (*flightResult, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Quiz cache read failed, generating")
	} else if entry != nil {
		return &flightResult{entry: entry, cached: true}, nil
	}

	// The generation outlives the caller so finished work is still cached.
	genCtx := context.WithoutCancel(ctx)

	ch := s.flights.DoChan(key, func() (any, error) {
		if e, err := s.store.Get(genCtx, key); err == nil && e != nil {
			return &flightResult{entry: e, cached: true}, nil
		}
		e, err := s.generate(genCtx, key, topic, count, diff)
		if err != nil {
			return nil, err
		}
		return &flightResult{entry: e}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*flightResult), nil
	}
}

func (s *quizService) generate(ctx context.Context, key, topic string, count int, diff Difficulty) (*Entry, error) {
	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}

	log := config.WithContext(ctx).WithField("cache_key", key)

	seed := s.seed(topic, count, s.clock.Now())
	req := llm.UserPrompt(systemPrompt, BuildUserPrompt(topic, diff, count, seed))
	req.Temperature = s.cfg.Temperature
	req.MaxTokens = s.cfg.MaxTokens

	resp, err := s.provider.Complete(llm.WithPurpose(ctx, "quiz-generation"), req)
	if err != nil {
		return nil, &GenerationError{Reason: ReasonUpstream, Detail: err.Error(), Err: err}
	}

	questions, err := ParseQuestions(resp.Text, count, diff.Level)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			if resp.StopReason == "max_tokens" {
				genErr.Err = errors.Join(llm.ErrMaxTokensExceeded, genErr.Err)
			}
			log.WithFields(logrus.Fields{
				"reason":      genErr.Reason,
				"stop_reason": resp.StopReason,
				"raw":         resp.Text,
			}).Error("Model returned an unusable quiz")
		}
		return nil, err
	}

	if len(questions) < count {
		log.WithFields(logrus.Fields{
			"requested": count,
			"received":  len(questions),
		}).Warn("Model returned fewer questions than requested")
	}

	entry := &Entry{
		Key:       key,
		Topic:     topic,
		Level:     diff.Level,
		Questions: questions,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Put(ctx, entry); err != nil {
		return nil, fmt.Errorf("cache quiz: %w", err)
	}
	return entry, nil
}

func (s *quizService) SubmitQuiz(ctx context.Context, userID string, req SubmitQuizRequest) (*SubmitQuizResponse, error) {
	answers, err := answersByIndex(req.UserAnswers)
	if err != nil {
		return nil, err
	}

	u, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var key, topic string
	var level Level

	if req.SessionToken != "" {
		sess, err := openSession(s.sealer, req.SessionToken, userID)
		if err != nil {
			return nil, err
		}
		key, topic, level = sess.Key, sess.Topic, sess.Level
	} else {
		topic, err = normalizeTopic(req.Topic)
		if err != nil {
			return nil, err
		}
		diff := ResolveDifficulty(req.ManualDifficulty, u.EducationLevel)
		key, level = CacheKey(topic, s.questionCount(req.NumberOfQuestions), diff.Level), diff.Level
	}

	log := config.WithContext(ctx).WithField("cache_key", key)

	entry, err := s.store.Get(ctx, key)
	if err != nil {
		log.WithError(err).Error("Failed to read quiz cache")
		return nil, err
	}
	if entry == nil {
		log.Info("Submission for a missing or expired quiz")
		return nil, ErrQuizNotFound
	}

	result, err := Score(entry.Questions, answers)
	if err != nil {
		log.WithError(err).Error("Failed to score quiz")
		return nil, err
	}

	if err := s.users.AddExperience(ctx, userID, result.Percentage); err != nil {
		log.WithError(err).Error("Failed to award experience")
		return nil, fmt.Errorf("award experience: %w", err)
	}

	answersJSON, _ := json.Marshal(req.UserAnswers)
	record := &QuizResult{
		UserID:         uid,
		Topic:          topic,
		Difficulty:     string(level),
		CacheKey:       key,
		Score:          result.RawScore,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Answers:        answersJSON,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.results.Create(ctx, record); err != nil {
		log.WithError(err).Error("Failed to record quiz result")
		return nil, fmt.Errorf("record quiz result: %w", err)
	}

	synced := true
	if _, err := s.activities.RecordQuizAttempt(ctx, activity.QuizAttempt{
		UserID:         uid,
		Topic:          topic,
		CacheKey:       key,
		Percentage:     result.Percentage,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.RawScore,
	}); err != nil {
		log.WithError(err).Warn("Quiz activity not synced")
		synced = false
	}

	log.WithFields(logrus.Fields{
		"score":      result.RawScore,
		"total":      result.TotalQuestions,
		"percentage": result.Percentage,
	}).Info("Quiz submitted")

	return &SubmitQuizResponse{
		Score:          result.RawScore,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		ExpEarned:      result.Percentage,
		ActivitySynced: synced,
	}, nil
}

func (s *quizService) ListResults(ctx context.Context, userID string) ([]*QuizResult, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list quiz results")
		return nil, err
	}
	return results, nil
}

func (s *quizService) GetResult(ctx context.Context, userID, id string) (*QuizResult, error) {
	res, err := s.results.GetByID(ctx, id, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("result_id", id).Error("Failed to load quiz result")
		return nil, err
	}
	return res, nil
}

func (s *quizService) lookupUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to load user")
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *quizService) questionCount(n *int) int {
	if n == nil {
		return ClampQuestionCount(s.cfg.DefaultQuestions)
	}
	return ClampQuestionCount(*n)
}
