package queue

import (
	"sync"

	"flipquest/internal/models"
)

// Inbox collects delivered achievements until a client drains them, like the
// toast that pops up after a flip
type Inbox struct {
	mu      sync.Mutex
	pending []models.Achievement
}

func NewInbox() *Inbox {
	return &Inbox{}
}

// Handle is an AchievementQueue subscriber
func (i *Inbox) Handle(batch []models.Achievement) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending = append(i.pending, batch...)
	return nil
}

// Drain returns and forgets everything delivered so far
func (i *Inbox) Drain() []models.Achievement {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.pending
	i.pending = nil
	if out == nil {
		out = []models.Achievement{}
	}
	return out
}
