package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"flipquest/internal/database"
	"flipquest/internal/models"
	"flipquest/internal/progression"
	"flipquest/internal/submission"
)

// SubmissionLog records submission attempts and their final status
type SubmissionLog interface {
	SaveSubmission(rec *database.SubmissionRecord) error
	UpdateSubmissionStatus(id, status string) error
}

// Notifier receives achievements as soon as a game unlocks them
type Notifier interface {
	Push(achievements []models.Achievement) error
}

// Manager serialises access to a Session and runs submissions in the
// background of the request that started them. Leaving the results screen
// cancels the submission in flight.
type Manager struct {
	mu        sync.Mutex
	session   *Session
	submitter submission.Submitter
	log       SubmissionLog
	notifier  Notifier
	inFlight  string
	cancel    context.CancelFunc
	logger    *logrus.Logger
}

// NewManager wraps session. log and notifier are optional.
func NewManager(s *Session, submitter submission.Submitter, log SubmissionLog, notifier Notifier, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if submitter == nil {
		submitter = submission.NewDelaySubmitter(submission.DefaultDelay, logger)
	}
	return &Manager{
		session:   s,
		submitter: submitter,
		log:       log,
		notifier:  notifier,
		logger:    logger,
	}
}

func (m *Manager) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Snapshot()
}

func (m *Manager) Profile() progression.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Player().Profile()
}

func (m *Manager) Begin() (View, error) {
	return m.navigate(func() error {
		_, err := m.session.Begin()
		return err
	})
}

func (m *Manager) StartRenovation() (View, error) {
	return m.navigate(m.session.StartRenovation)
}

func (m *Manager) Back() (View, error) {
	return m.navigate(m.session.Back)
}

func (m *Manager) AdjustPlan() (View, error) {
	return m.navigate(m.session.AdjustPlan)
}

func (m *Manager) PlayAgain() (View, error) {
	return m.navigate(m.session.PlayAgain)
}

func (m *Manager) AddUpgrade(room models.RoomType, option int) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.session.AddUpgrade(room, option); err != nil {
		return View{}, err
	}
	return m.session.Snapshot(), nil
}

func (m *Manager) RemoveUpgrade(room models.RoomType) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.session.RemoveUpgrade(room); err != nil {
		return View{}, err
	}
	return m.session.Snapshot(), nil
}

// ShowResults completes the plan and forwards any unlocked achievements to
// the notifier
func (m *Manager) ShowResults() (View, []models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	generation := m.session.Generation()
	outcome, err := m.session.ShowResults()
	if err != nil {
		return View{}, nil, err
	}
	if m.session.Generation() != generation {
		m.cancelInFlight()
	}

	if m.notifier != nil && len(outcome.Unlocked) > 0 {
		if err := m.notifier.Push(outcome.Unlocked); err != nil {
			m.logger.WithError(err).Warn("Failed to queue achievement notification")
		}
	}
	return m.session.Snapshot(), outcome.Unlocked, nil
}

func (m *Manager) navigate(action func() error) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := action(); err != nil {
		return View{}, err
	}
	m.cancelInFlight()
	return m.session.Snapshot(), nil
}

func (m *Manager) cancelInFlight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
		m.inFlight = ""
	}
}

// Submit sends the results email. The call blocks for the duration of the
// external request without holding the session lock.
func (m *Manager) Submit(ctx context.Context, email string, wantsTrial bool) (View, error) {
	m.mu.Lock()
	ticket, err := m.session.BeginSubmission(email, wantsTrial)
	if err != nil {
		m.mu.Unlock()
		return View{}, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.cancel = cancel
	m.inFlight = ticket.Submission.ID
	m.record(ticket)
	m.mu.Unlock()

	sendErr := m.submitter.Submit(ctx, ticket.Submission)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight == ticket.Submission.ID {
		m.cancel = nil
		m.inFlight = ""
	}

	err = m.session.FinishSubmission(ticket, sendErr)
	status := database.SubmissionSent
	switch {
	case errors.Is(err, ErrSubmissionDiscarded):
		status = database.SubmissionDiscarded
	case err != nil:
		status = database.SubmissionFailed
	}
	m.updateStatus(ticket.Submission.ID, status)

	entry := m.logger.WithFields(logrus.Fields{
		"session_id":    m.session.ID(),
		"submission_id": ticket.Submission.ID,
		"status":        status,
	})
	if err != nil {
		entry.WithError(err).Warn("Submission did not complete")
		return View{}, err
	}
	entry.Info("Submission sent")
	return m.session.Snapshot(), nil
}

func (m *Manager) record(ticket Ticket) {
	if m.log == nil {
		return
	}
	roi := ticket.ROI
	rec := &database.SubmissionRecord{
		ID:         ticket.Submission.ID,
		SessionID:  m.session.ID(),
		Email:      ticket.Submission.Email,
		WantsTrial: ticket.Submission.WantsTrial,
		PropertyID: ticket.PropertyID,
		ROI:        &roi,
		Rank:       string(ticket.Rank),
		Status:     database.SubmissionPending,
	}
	if err := m.log.SaveSubmission(rec); err != nil {
		m.logger.WithError(err).Warn("Failed to record submission")
	}
}

func (m *Manager) updateStatus(id, status string) {
	if m.log == nil {
		return
	}
	if err := m.log.UpdateSubmissionStatus(id, status); err != nil {
		m.logger.WithError(err).Warn("Failed to update submission status")
	}
}
