package quiz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath-lambda/internal/activity"
	"github.com/saulo-duarte/learnpath-lambda/internal/llm"
	"github.com/saulo-duarte/learnpath-lambda/internal/user"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu       sync.Mutex
	users    map[string]*user.User
	expErr   error
	lookups  int
	expAdded map[string]int
}

func newFakeUsers(users ...*user.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*user.User{}, expAdded: map[string]int{}}
	for _, u := range users {
		f.users[u.ID.String()] = u
	}
	return f
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) AddExperience(_ context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expErr != nil {
		return f.expErr
	}
	f.expAdded[id] += delta
	f.users[id].Experience += delta
	return nil
}

type fakeResults struct {
	mu      sync.Mutex
	records []*QuizResult
}

func (f *fakeResults) Create(_ context.Context, r *QuizResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	f.records = append(f.records, r)
	return nil
}

func (f *fakeResults) GetByID(_ context.Context, id, userID string) (*QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID.String() == id && r.UserID.String() == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResults) ListByUser(_ context.Context, userID string) ([]*QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*QuizResult
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID.String() == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

type fakeActivities struct {
	activity.Service

	mu       sync.Mutex
	attempts []activity.QuizAttempt
	err      error
}

func (f *fakeActivities) RecordQuizAttempt(_ context.Context, a activity.QuizAttempt) (*activity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.attempts = append(f.attempts, a)
	return &activity.Activity{UserID: a.UserID, Topic: a.Topic, Reference: a.CacheKey}, nil
}

// prefixSealer is a reversible stand-in for AES-GCM.
type prefixSealer struct{}

func (prefixSealer) Seal(p string) (string, error) { return "sealed:" + p, nil }
func (prefixSealer) Open(t string) (string, error) {
	if !strings.HasPrefix(t, "sealed:") {
		return "", errors.New("bad token")
	}
	return strings.TrimPrefix(t, "sealed:"), nil
}

type harness struct {
	svc        *quizService
	provider   *llm.MockProvider
	users      *fakeUsers
	results    *fakeResults
	activities *fakeActivities
	store      *MemoryStore
	clock      *util.ManualClock
	learner    *user.User
}

func newHarness(t *testing.T, sealer Sealer) *harness {
	t.Helper()
	clock := util.NewManualClock(epoch)
	learner := &user.User{ID: uuid.New(), Name: "Ada", EducationLevel: user.EducationHighSchool}

	h := &harness{
		provider:   llm.NewMockProvider(),
		users:      newFakeUsers(learner),
		results:    &fakeResults{},
		activities: &fakeActivities{},
		store:      NewMemoryStore(2*time.Hour, 0, clock),
		clock:      clock,
		learner:    learner,
	}
	svc := NewService(Deps{
		Users:      h.users,
		Activities: h.activities,
		Results:    h.results,
		Store:      h.store,
		Provider:   h.provider,
		Sealer:     sealer,
		Clock:      clock,
	}, DefaultConfig())
	h.svc = svc.(*quizService)
	h.svc.seed = func(string, int, time.Time) string { return "fixed-seed" }
	return h
}

func (h *harness) userID() string { return h.learner.ID.String() }

func intPtr(n int) *int { return &n }

func TestGenerateQuiz_CachesAndReuses(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(5)})

	req := GenerateQuizRequest{Topic: "Photosynthesis", NumberOfQuestions: intPtr(5)}

	first, err := h.svc.GenerateQuiz(ctx, h.userID(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "photosynthesis_5_beginner", first.CacheKey)
	assert.Equal(t, LevelBeginner, first.Difficulty)
	assert.Equal(t, "foundational concepts and basic principles", first.DifficultyDescription)
	assert.Equal(t, user.EducationHighSchool, first.EducationLevel)
	assert.Len(t, first.Questions, 5)

	h.clock.Advance(30 * time.Minute)
	second, err := h.svc.GenerateQuiz(ctx, h.userID(), GenerateQuizRequest{Topic: "  PHOTOSYNTHESIS ", NumberOfQuestions: intPtr(5)})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Questions, second.Questions)
	assert.Equal(t, 1, h.provider.CallCount())
}

func TestGenerateQuiz_RegeneratesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(3)})
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(2)})

	req := GenerateQuizRequest{Topic: "Algebra", NumberOfQuestions: intPtr(3)}
	_, err := h.svc.GenerateQuiz(ctx, h.userID(), req)
	require.NoError(t, err)

	h.clock.Advance(2*time.Hour + time.Second)

	again, err := h.svc.GenerateQuiz(ctx, h.userID(), req)
	require.NoError(t, err)
	assert.False(t, again.Cached)
	assert.Len(t, again.Questions, 2)
	assert.Equal(t, 2, h.provider.CallCount())
}

func TestGenerateQuiz_PromptAndClamp(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(12)})

	resp, err := h.svc.GenerateQuiz(ctx, h.userID(), GenerateQuizRequest{
		Topic:             "Rust lifetimes",
		NumberOfQuestions: intPtr(15),
		ManualDifficulty:  "Advanced",
	})
	require.NoError(t, err)
	assert.Equal(t, "rust lifetimes_10_advanced", resp.CacheKey)
	assert.Len(t, resp.Questions, 10)
	assert.Empty(t, resp.EducationLevel)

	require.Len(t, h.provider.Calls, 1)
	call := h.provider.Calls[0]
	assert.Equal(t, systemPrompt, call.System)
	prompt := call.Messages[0].Content
	assert.Contains(t, prompt, `"Rust lifetimes"`)
	assert.Contains(t, prompt, "exactly 10 questions")
	assert.Contains(t, prompt, "advanced concepts and complex problem-solving")
	assert.Contains(t, prompt, "fixed-seed")
	assert.Equal(t, 0.7, call.Temperature)
}

func TestGenerateQuiz_DefaultCount(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(5)})

	resp, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{Topic: "Cells"})
	require.NoError(t, err)
	assert.Equal(t, "cells_5_beginner", resp.CacheKey)
}

func TestGenerateQuiz_InvalidTopic(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{Topic: "   "})
	assert.ErrorIs(t, err, ErrInvalidTopic)
	assert.Zero(t, h.provider.CallCount())
	assert.Zero(t, h.users.lookups)
}

func TestGenerateQuiz_UserNotFound(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.GenerateQuiz(context.Background(), uuid.NewString(), GenerateQuizRequest{Topic: "Cells"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, h.provider.CallCount())
}

func TestGenerateQuiz_FailuresAreNotCached(t *testing.T) {
	tests := []struct {
		name   string
		resp   llm.MockResponse
		reason GenerationReason
	}{
		{"upstream", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, ReasonUpstream},
		{"malformed", llm.MockResponse{Text: "I'd rather not."}, ReasonMalformed},
		{"invalid batch", llm.MockResponse{Text: `{"questions":[{"question":"Q?","options":["a","b","c"],"correctAnswer":"a"}]}`}, ReasonInvalidStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, nil)
			h.provider.AddResponse(tt.resp)

			_, err := h.svc.GenerateQuiz(ctx, h.userID(), GenerateQuizRequest{Topic: "Cells"})
			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.reason, genErr.Reason)
			assert.Zero(t, h.store.Len())

			h.provider.AddResponse(llm.MockResponse{Text: quizJSON(5)})
			resp, err := h.svc.GenerateQuiz(ctx, h.userID(), GenerateQuizRequest{Topic: "Cells"})
			require.NoError(t, err)
			assert.False(t, resp.Cached)
			assert.Equal(t, 2, h.provider.CallCount())
		})
	}
}

func TestGenerateQuiz_TruncatedOutput(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.AddResponse(llm.MockResponse{
		Text:       `{"questions":[{"question":"Q?","options":["a",`,
		StopReason: "max_tokens",
	})

	_, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{Topic: "Cells"})
	assert.ErrorIs(t, err, llm.ErrMaxTokensExceeded)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, ReasonMalformed, genErr.Reason)
}

func TestGenerateQuiz_SingleFlight(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.Block = make(chan struct{})
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(5)})

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{Topic: "Cells"})
			errs <- err
		}()
	}

	// Let every caller reach the flight before the model answers.
	time.Sleep(50 * time.Millisecond)
	close(h.provider.Block)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, h.provider.CallCount())
}

func TestGenerateQuiz_CallerCancelStillCaches(t *testing.T) {
	h := newHarness(t, nil)
	h.provider.Block = make(chan struct{})
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(5)})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := h.svc.GenerateQuiz(ctx, h.userID(), GenerateQuizRequest{Topic: "Cells"})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(h.provider.Block)
	assert.Eventually(t, func() bool { return h.store.Len() == 1 }, time.Second, 5*time.Millisecond)

	resp, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{Topic: "Cells"})
	require.NoError(t, err)
	assert.True(t, resp.Cached)
}

func seedQuiz(t *testing.T, h *harness, topic string, count int) *GenerateQuizResponse {
	t.Helper()
	h.provider.AddResponse(llm.MockResponse{Text: quizJSON(count)})
	resp, err := h.svc.GenerateQuiz(context.Background(), h.userID(), GenerateQuizRequest{
		Topic:             topic,
		NumberOfQuestions: intPtr(count),
	})
	require.NoError(t, err)
	return resp
}

func TestSubmitQuiz_Scores(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)

	resp, err := h.svc.SubmitQuiz(ctx, h.userID(), SubmitQuizRequest{
		Topic:             "Cells",
		NumberOfQuestions: intPtr(5),
		UserAnswers:       map[string]string{"0": "b0", "1": "b1", "2": "a2", "3": "b3"},
	})
	require.NoError(t, err)
	assert.Equal(t, &SubmitQuizResponse{
		Score:          3,
		TotalQuestions: 5,
		Percentage:     60,
		ExpEarned:      60,
		ActivitySynced: true,
	}, resp)

	assert.Equal(t, 60, h.users.expAdded[h.userID()])

	require.Len(t, h.results.records, 1)
	rec := h.results.records[0]
	assert.Equal(t, "Cells", rec.Topic)
	assert.Equal(t, "cells_5_beginner", rec.CacheKey)
	assert.Equal(t, 60, rec.Percentage)
	assert.JSONEq(t, `{"0":"b0","1":"b1","2":"a2","3":"b3"}`, string(rec.Answers))

	require.Len(t, h.activities.attempts, 1)
	att := h.activities.attempts[0]
	assert.Equal(t, h.learner.ID, att.UserID)
	assert.Equal(t, "cells_5_beginner", att.CacheKey)
	assert.Equal(t, 60, att.Percentage)
	assert.Equal(t, 3, att.CorrectAnswers)
}

func TestSubmitQuiz_NotFound(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Never generated",
		UserAnswers: map[string]string{"0": "a"},
	})
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.Empty(t, h.users.expAdded)
	assert.Empty(t, h.results.records)
	assert.Empty(t, h.activities.attempts)
}

func TestSubmitQuiz_ExpiredQuiz(t *testing.T) {
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)
	h.clock.Advance(3 * time.Hour)

	_, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Cells",
		UserAnswers: map[string]string{"0": "b0"},
	})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitQuiz_Resubmission(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)

	req := SubmitQuizRequest{Topic: "Cells", UserAnswers: map[string]string{"0": "b0", "1": "b1"}}
	first, err := h.svc.SubmitQuiz(ctx, h.userID(), req)
	require.NoError(t, err)
	second, err := h.svc.SubmitQuiz(ctx, h.userID(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 80, h.users.expAdded[h.userID()])
	assert.Len(t, h.results.records, 2)
	assert.Len(t, h.activities.attempts, 2)
}

func TestSubmitQuiz_ActivityFailureIsBestEffort(t *testing.T) {
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)
	h.activities.err = errors.New("db down")

	resp, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Cells",
		UserAnswers: map[string]string{"0": "b0"},
	})
	require.NoError(t, err)
	assert.False(t, resp.ActivitySynced)
	assert.Equal(t, 20, resp.ExpEarned)
	assert.Len(t, h.results.records, 1)
}

func TestSubmitQuiz_ExperienceFailureFails(t *testing.T) {
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)
	h.users.expErr = errors.New("db down")

	_, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Cells",
		UserAnswers: map[string]string{"0": "b0"},
	})
	require.Error(t, err)
	assert.Empty(t, h.results.records)
	assert.Empty(t, h.activities.attempts)
}

func TestSubmitQuiz_InvalidInput(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{Topic: "Cells"})
	assert.ErrorIs(t, err, ErrInvalidAnswers)

	_, err = h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Cells",
		UserAnswers: map[string]string{"q1": "a"},
	})
	assert.ErrorIs(t, err, ErrInvalidAnswers)

	_, err = h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		UserAnswers: map[string]string{"0": "a"},
	})
	assert.ErrorIs(t, err, ErrInvalidTopic)
}

func TestSubmitQuiz_EducationChangeWithoutSession(t *testing.T) {
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)
	h.users.users[h.userID()].EducationLevel = user.EducationProfessional

	_, err := h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		Topic:       "Cells",
		UserAnswers: map[string]string{"0": "b0"},
	})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitQuiz_SessionTokenPinsQuiz(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, prefixSealer{})
	gen := seedQuiz(t, h, "Cells", 5)
	require.NotEmpty(t, gen.SessionToken)

	h.users.users[h.userID()].EducationLevel = user.EducationProfessional

	resp, err := h.svc.SubmitQuiz(ctx, h.userID(), SubmitQuizRequest{
		SessionToken: gen.SessionToken,
		UserAnswers:  map[string]string{"0": "b0", "1": "b1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.Percentage)
	assert.Equal(t, "cells_5_beginner", h.results.records[0].CacheKey)
	assert.Equal(t, "Cells", h.results.records[0].Topic)
}

func TestSubmitQuiz_SessionTokenRejected(t *testing.T) {
	h := newHarness(t, prefixSealer{})
	gen := seedQuiz(t, h, "Cells", 5)

	other := &user.User{ID: uuid.New(), EducationLevel: user.EducationHighSchool}
	h.users.users[other.ID.String()] = other

	_, err := h.svc.SubmitQuiz(context.Background(), other.ID.String(), SubmitQuizRequest{
		SessionToken: gen.SessionToken,
		UserAnswers:  map[string]string{"0": "b0"},
	})
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = h.svc.SubmitQuiz(context.Background(), h.userID(), SubmitQuizRequest{
		SessionToken: "garbage",
		UserAnswers:  map[string]string{"0": "b0"},
	})
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestListResults(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	seedQuiz(t, h, "Cells", 5)

	for _, answers := range []map[string]string{{"0": "b0"}, {"0": "b0", "1": "b1"}} {
		_, err := h.svc.SubmitQuiz(ctx, h.userID(), SubmitQuizRequest{Topic: "Cells", UserAnswers: answers})
		require.NoError(t, err)
	}

	results, err := h.svc.ListResults(ctx, h.userID())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 40, results[0].Percentage)

	got, err := h.svc.GetResult(ctx, h.userID(), results[1].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 20, got.Percentage)
}
