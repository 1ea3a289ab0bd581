package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"flipquest/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// AchievementQueue fans out batches of freshly unlocked achievements to
// subscribers without blocking the game. Closing a started queue delivers
// every batch still buffered before it returns.
type AchievementQueue struct {
	items    chan []models.Achievement
	stopped  chan struct{}
	maxSize  int
	started  bool
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]models.Achievement) error
}

// NewAchievementQueue creates a queue holding up to bufferSize batches
func NewAchievementQueue(bufferSize int, logger *logrus.Logger) *AchievementQueue {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &AchievementQueue{
		items:    make(chan []models.Achievement, bufferSize),
		stopped:  make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]models.Achievement) error, 0),
	}
}

// Push enqueues a batch. Empty batches are dropped.
func (q *AchievementQueue) Push(achievements []models.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send so a slow subscriber never stalls a game action
	select {
	case q.items <- achievements:
		q.logger.WithField("batch_size", len(achievements)).Debug("Queued achievements")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for each batch
func (q *AchievementQueue) Subscribe(handler func([]models.Achievement) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins delivering batches to subscribers. Starting twice or after
// Close does nothing.
func (q *AchievementQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	go q.process()
}

func (q *AchievementQueue) process() {
	defer close(q.stopped)
	for batch := range q.items {
		q.dispatch(batch)
	}
}

func (q *AchievementQueue) dispatch(batch []models.Achievement) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process achievements")
		}
	}
}

// Close rejects further pushes and waits until the buffered batches have
// been dispatched. A queue that was never started keeps its buffer.
func (q *AchievementQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	started := q.started
	q.mu.Unlock()

	if started {
		<-q.stopped
	}
	return nil
}

// Len returns the number of batches waiting for delivery
func (q *AchievementQueue) Len() int {
	return len(q.items)
}

func (q *AchievementQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
