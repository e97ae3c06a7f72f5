package quiz

import (
	"context"

	"github.com/saulo-duarte/learnpath-lambda/internal/activity"
	"github.com/saulo-duarte/learnpath-lambda/internal/llm"
	"github.com/saulo-duarte/learnpath-lambda/internal/user"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Handler *Handler
	Service QuizService
	Store   Store
}

// NewQuizContainer wires the quiz feature. The cache janitor runs until ctx is done.
func NewQuizContainer(
	ctx context.Context,
	db *gorm.DB,
	users user.UserRepository,
	activities activity.Service,
	provider llm.Provider,
	clock util.Clock,
	cfg Config,
) *QuizContainer {
	var store Store
	switch cfg.CacheBackend {
	case CacheBackendPostgres:
		s := NewGormStore(db, cfg.CacheTTL, clock)
		go s.RunJanitor(ctx, cfg.SweepInterval)
		store = s
	default:
		s := NewMemoryStore(cfg.CacheTTL, cfg.MaxEntries, clock)
		go s.RunJanitor(ctx, cfg.SweepInterval)
		store = s
	}

	var sealer Sealer
	if cfg.SessionTokens {
		sealer = CryptoSealer{}
	}

	service := NewService(Deps{
		Users:      users,
		Activities: activities,
		Results:    NewResultRepository(db),
		Store:      store,
		Provider:   provider,
		Sealer:     sealer,
		Clock:      clock,
	}, cfg)

	return &QuizContainer{
		Handler: NewHandler(service),
		Service: service,
		Store:   store,
	}
}
