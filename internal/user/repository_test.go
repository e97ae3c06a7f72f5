package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewRepository(db)

	u := &User{Name: "Ada", Email: "ada@example.com", EducationLevel: EducationGraduate}
	require.NoError(t, db.Create(u).Error)
	require.NotEqual(t, uuid.Nil, u.ID)

	got, err := repo.GetByID(ctx, u.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, EducationGraduate, got.EducationLevel)
	assert.Zero(t, got.Experience)

	missing, err := repo.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.AddExperience(ctx, u.ID.String(), 60))
	require.NoError(t, repo.AddExperience(ctx, u.ID.String(), 40))

	got, err = repo.GetByID(ctx, u.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100, got.Experience)

	err = repo.AddExperience(ctx, uuid.NewString(), 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
