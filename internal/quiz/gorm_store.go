package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps generated quizzes in the cached_quizzes table so they
// survive restarts and are shared between instances.
type GormStore struct {
	db    *gorm.DB
	ttl   time.Duration
	clock util.Clock
}

func NewGormStore(db *gorm.DB, ttl time.Duration, clock util.Clock) *GormStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &GormStore{db: db, ttl: ttl, clock: clock}
}

func (s *GormStore) Get(ctx context.Context, key string) (*Entry, error) {
	var row CachedQuiz
	if err := s.db.WithContext(ctx).First(&row, "cache_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	entry := &Entry{
		Key:       row.CacheKey,
		Topic:     row.Topic,
		Level:     Level(row.Level),
		CreatedAt: row.CreatedAt,
	}
	if IsExpired(entry, s.clock.Now(), s.ttl) {
		if err := s.db.WithContext(ctx).Delete(&CachedQuiz{}, "cache_key = ? AND created_at <= ?", key, row.CreatedAt).Error; err != nil {
			config.WithContext(ctx).WithError(err).WithField("cache_key", key).Warn("Failed to delete expired quiz")
		}
		return nil, nil
	}

	if err := json.Unmarshal(row.Questions, &entry.Questions); err != nil {
		return nil, fmt.Errorf("decode cached questions: %w", err)
	}
	return entry, nil
}

func (s *GormStore) Put(ctx context.Context, entry *Entry) error {
	questions, err := json.Marshal(entry.Questions)
	if err != nil {
		return err
	}

	row := CachedQuiz{
		CacheKey:  entry.Key,
		Topic:     entry.Topic,
		Level:     string(entry.Level),
		Questions: datatypes.JSON(questions),
		CreatedAt: entry.CreatedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"topic", "level", "questions", "created_at"}),
	}).Create(&row).Error
}

// SweepExpired deletes rows older than the TTL.
func (s *GormStore) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.ttl)
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&CachedQuiz{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) RunJanitor(ctx context.Context, interval time.Duration) {
	runJanitor(ctx, interval, s.SweepExpired)
}
