package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipquest/internal/models"
)

func batch(ids ...models.AchievementID) []models.Achievement {
	out := make([]models.Achievement, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Achievements[id])
	}
	return out
}

func TestNewAchievementQueue(t *testing.T) {
	logger := logrus.New()
	q := NewAchievementQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestAchievementQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewAchievementQueue(2, logger)

	// Test successful push
	err := q.Push(batch(models.AchievementFirstFlip))
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Empty batches are ignored
	assert.NoError(t, q.Push(nil))
	assert.Equal(t, 1, q.Len())

	// Test queue full
	require.NoError(t, q.Push(batch(models.AchievementBigProfit)))
	err = q.Push(batch(models.AchievementSpeedDemon))
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	require.NoError(t, q.Close())
	err = q.Push(batch(models.AchievementSpeedDemon))
	assert.Equal(t, ErrQueueClosed, err)
}

func TestAchievementQueue_Subscribe(t *testing.T) {
	q := NewAchievementQueue(10, logrus.New())
	defer q.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var delivered []models.Achievement

	wg.Add(1)
	q.Subscribe(func(a []models.Achievement) error {
		mu.Lock()
		delivered = append(delivered, a...)
		mu.Unlock()
		wg.Done()
		return nil
	})
	q.Start()

	require.NoError(t, q.Push(batch(models.AchievementFirstFlip, models.AchievementQuickFlipper)))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 2)
	assert.Equal(t, models.AchievementFirstFlip, delivered[0].ID)
	assert.Equal(t, models.AchievementQuickFlipper, delivered[1].ID)
}

func TestAchievementQueue_HandlerErrorDoesNotStopOthers(t *testing.T) {
	q := NewAchievementQueue(10, logrus.New())
	defer q.Close()

	inbox := NewInbox()
	done := make(chan struct{})
	q.Subscribe(func([]models.Achievement) error { return errors.New("boom") })
	q.Subscribe(inbox.Handle)
	q.Subscribe(func([]models.Achievement) error { close(done); return nil })
	q.Start()

	require.NoError(t, q.Push(batch(models.AchievementROIMaster)))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("batch was not delivered")
	}
	assert.Len(t, inbox.Drain(), 1)
}

func TestAchievementQueue_Close(t *testing.T) {
	q := NewAchievementQueue(10, logrus.New())

	// Test first close
	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Test second close (should be no-op)
	err = q.Close()
	assert.NoError(t, err)
}

func TestAchievementQueue_CloseDeliversBuffered(t *testing.T) {
	q := NewAchievementQueue(4, logrus.New())
	inbox := NewInbox()
	q.Subscribe(inbox.Handle)

	require.NoError(t, q.Push(batch(models.AchievementFirstFlip)))
	require.NoError(t, q.Push(batch(models.AchievementBigProfit, models.AchievementSpeedDemon)))
	require.NoError(t, q.Push(batch(models.AchievementROIMaster)))

	q.Start()
	require.NoError(t, q.Close())

	assert.Len(t, inbox.Drain(), 4)
	assert.Zero(t, q.Len())
	assert.Equal(t, ErrQueueClosed, q.Push(batch(models.AchievementSerialFlipper)))
}

func TestAchievementQueue_StartAfterClose(t *testing.T) {
	q := NewAchievementQueue(4, logrus.New())
	require.NoError(t, q.Close())

	q.Start()
	assert.True(t, q.IsClosed())
	assert.NoError(t, q.Close())
}

func TestInbox_Drain(t *testing.T) {
	inbox := NewInbox()
	assert.Empty(t, inbox.Drain())

	require.NoError(t, inbox.Handle(batch(models.AchievementFirstFlip)))
	require.NoError(t, inbox.Handle(batch(models.AchievementSavvyFlipper, models.AchievementQuickFlipper)))

	got := inbox.Drain()
	assert.Len(t, got, 3)
	assert.NotNil(t, inbox.Drain())
	assert.Empty(t, inbox.Drain())
}
