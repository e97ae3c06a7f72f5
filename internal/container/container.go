package container

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/learnpath-lambda/internal/activity"
	"github.com/saulo-duarte/learnpath-lambda/internal/auth"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/saulo-duarte/learnpath-lambda/internal/llm"
	"github.com/saulo-duarte/learnpath-lambda/internal/quiz"
	"github.com/saulo-duarte/learnpath-lambda/internal/router"
	"github.com/saulo-duarte/learnpath-lambda/internal/user"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"github.com/sirupsen/logrus"
)

type Container struct {
	UserContainer     *user.UserContainer
	ActivityContainer *activity.Container
	QuizContainer     *quiz.QuizContainer
	Router            *chi.Mux
}

// New wires the application. Background work such as the quiz cache
// janitor stops when ctx is done.
func New(ctx context.Context) *Container {
	config.Init()
	auth.Init()

	quizCfg := quiz.ConfigFromEnv()
	if quizCfg.SessionTokens {
		config.InitCrypto()
	}

	log := config.WithContext(ctx)

	if err := config.Connect(ctx, os.Getenv("DATABASE_DSN")); err != nil {
		log.WithError(err).Fatal("Failed to connect to DB")
	}
	if err := config.Migrate(config.DB,
		&user.User{},
		&activity.Activity{},
		&quiz.QuizResult{},
		&quiz.CachedQuiz{},
	); err != nil {
		log.WithError(err).Fatal("Failed to migrate DB")
	}

	provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv())
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize LLM provider")
	}

	clock := util.SystemClock{}

	userContainer := user.NewUserContainer(config.DB)
	activityContainer := activity.NewContainer(config.DB, clock)
	quizContainer := quiz.NewQuizContainer(
		ctx,
		config.DB,
		userContainer.Repo,
		activityContainer.Service,
		provider,
		clock,
		quizCfg,
	)

	r := router.New(router.RouterConfig{
		UserHandler:     userContainer.Handler,
		ActivityHandler: activityContainer.Handler,
		QuizHandler:     quizContainer.Handler,
		AuthHandler:     auth.NewHandler(os.Getenv("COOKIE_DOMAIN")),
		HealthCheck: func(ctx context.Context) error {
			sqlDB, err := config.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	log.WithFields(logrus.Fields{
		"llm_model":     provider.ModelID(),
		"cache_backend": quizCfg.CacheBackend,
	}).Info("Container initialized")

	return &Container{
		UserContainer:     userContainer,
		ActivityContainer: activityContainer,
		QuizContainer:     quizContainer,
		Router:            r,
	}
}
