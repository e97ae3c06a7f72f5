package quiz

import (
	"context"
	"testing"
	"time"

	util "github.com/saulo-duarte/learnpath-lambda/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newEntry(key string, at time.Time) *Entry {
	return &Entry{
		Key:       key,
		Topic:     "algebra",
		Level:     LevelIntermediate,
		Questions: fiveQuestions(),
		CreatedAt: at,
	}
}

func TestIsExpired(t *testing.T) {
	e := newEntry("k", epoch)
	assert.False(t, IsExpired(e, epoch, time.Hour))
	assert.False(t, IsExpired(e, epoch.Add(time.Hour), time.Hour))
	assert.True(t, IsExpired(e, epoch.Add(time.Hour+time.Millisecond), time.Hour))
}

func TestMemoryStore_GetPut(t *testing.T) {
	ctx := context.Background()
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(2*time.Hour, 0, clock)

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	e := newEntry("algebra_5_intermediate", clock.Now())
	require.NoError(t, s.Put(ctx, e))

	got, err = s.Get(ctx, e.Key)
	require.NoError(t, err)
	assert.Same(t, e, got)
}

func TestMemoryStore_ExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(2*time.Hour, 0, clock)

	require.NoError(t, s.Put(ctx, newEntry("k", clock.Now())))

	clock.Advance(2 * time.Hour)
	got, _ := s.Get(ctx, "k")
	assert.NotNil(t, got, "entry at exactly the TTL is still live")

	clock.Advance(time.Second)
	got, _ = s.Get(ctx, "k")
	assert.Nil(t, got)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(time.Hour, 0, clock)

	first := newEntry("k", clock.Now())
	require.NoError(t, s.Put(ctx, first))

	clock.Advance(2 * time.Hour)
	second := newEntry("k", clock.Now())
	require.NoError(t, s.Put(ctx, second))

	got, _ := s.Get(ctx, "k")
	assert.Same(t, second, got)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(time.Hour, 0, clock)

	require.NoError(t, s.Put(ctx, newEntry("old", clock.Now())))
	clock.Advance(50 * time.Minute)
	require.NoError(t, s.Put(ctx, newEntry("new", clock.Now())))
	clock.Advance(20 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	got, _ := s.Get(ctx, "new")
	assert.NotNil(t, got)
}

func TestMemoryStore_MaxEntriesEvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(time.Hour, 2, clock)

	require.NoError(t, s.Put(ctx, newEntry("a", clock.Now())))
	clock.Advance(time.Minute)
	require.NoError(t, s.Put(ctx, newEntry("b", clock.Now())))
	clock.Advance(time.Minute)
	require.NoError(t, s.Put(ctx, newEntry("c", clock.Now())))

	assert.Equal(t, 2, s.Len())
	got, _ := s.Get(ctx, "a")
	assert.Nil(t, got)
	got, _ = s.Get(ctx, "c")
	assert.NotNil(t, got)

	// Overwriting an existing key never evicts.
	require.NoError(t, s.Put(ctx, newEntry("b", clock.Now())))
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStore_RunJanitorStopsWithContext(t *testing.T) {
	clock := util.NewManualClock(epoch)
	s := NewMemoryStore(time.Minute, 0, clock)
	require.NoError(t, s.Put(context.Background(), newEntry("k", clock.Now())))
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
