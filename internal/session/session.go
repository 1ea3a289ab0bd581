package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flipquest/internal/display"
	"flipquest/internal/models"
	"flipquest/internal/progression"
	"flipquest/internal/renovation"
	"flipquest/internal/screen"
	"flipquest/internal/submission"
)

var (
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrAlreadySubmitted     = errors.New("results were already submitted")
	ErrSubmissionDiscarded  = errors.New("submission discarded after leaving the results screen")
)

// PropertySource hands out the property for a new game
type PropertySource interface {
	Random() *models.Property
}

// Outcome is what the results screen shows for the current plan
type Outcome struct {
	Totals   renovation.Totals
	Rank     progression.Rank
	FinalARV int64
	Profit   int64
	// Unlocked is only filled on the visit that completed the game
	Unlocked []models.Achievement
}

type submissionState struct {
	pending    bool
	submitted  bool
	email      string
	wantsTrial bool
	lastErr    error
}

// Ticket ties an in-flight submission to the screen it started on
type Ticket struct {
	generation uint64
	Submission submission.Submission
	PropertyID int64
	ROI        float64
	Rank       progression.Rank
}

// Session is one player's run of the simulator. It is not safe for concurrent
// use: every call must finish before the next starts.
type Session struct {
	id         string
	properties PropertySource
	player     *progression.Player
	screen     *screen.Controller
	property   *models.Property
	plan       *renovation.Plan
	completed  bool
	submission submissionState
	// generation changes on every navigation so stale async work can tell
	generation uint64
	logger     *logrus.Logger
}

// New starts a session on the start screen. The player is injected so its
// progression outlives individual games.
func New(properties PropertySource, player *progression.Player, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if player == nil {
		player = progression.NewPlayer(nil)
	}
	return &Session{
		id:         uuid.NewString(),
		properties: properties,
		player:     player,
		screen:     screen.NewController(),
		logger:     logger,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Player() *progression.Player {
	return s.player
}

func (s *Session) Screen() screen.State {
	return s.screen.Current()
}

func (s *Session) Property() *models.Property {
	return s.property
}

func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) navigated() {
	s.generation++
	s.submission = submissionState{}
}

// Begin leaves the start screen with a freshly drawn property
func (s *Session) Begin() (*models.Property, error) {
	if err := s.screen.Expect(screen.Start); err != nil {
		return nil, err
	}

	property := s.properties.Random()
	if property == nil {
		return nil, renovation.ErrNoProperty
	}
	if err := s.screen.Next(0); err != nil {
		return nil, err
	}

	s.property = property
	s.plan = renovation.NewPlan(property)
	s.completed = false
	s.navigated()
	s.logger.WithFields(logrus.Fields{
		"session_id":  s.id,
		"property_id": property.ID,
	}).Info("Property drawn")
	return property, nil
}

// StartRenovation moves from the property review to planning with an empty
// selection. A property that already reached results stays completed.
func (s *Session) StartRenovation() error {
	if err := s.screen.Expect(screen.PropertyReview); err != nil {
		return err
	}
	if err := s.screen.Next(0); err != nil {
		return err
	}

	s.plan = renovation.NewPlan(s.property)
	s.navigated()
	return nil
}

// Back goes one screen back. From results this is the "adjust plan" action.
// Returning to the start screen drops the drawn property.
func (s *Session) Back() error {
	if err := s.screen.Back(); err != nil {
		return err
	}
	if s.screen.Current() == screen.Start {
		s.property = nil
		s.plan = nil
		s.completed = false
	}
	s.navigated()
	return nil
}

// AdjustPlan returns from results to planning, keeping the selection
func (s *Session) AdjustPlan() error {
	if err := s.screen.Expect(screen.Results); err != nil {
		return err
	}
	return s.Back()
}

// AddUpgrade selects the room's option at index while planning
func (s *Session) AddUpgrade(room models.RoomType, option int) (models.Upgrade, error) {
	if err := s.screen.Expect(screen.Planning); err != nil {
		return models.Upgrade{}, err
	}
	return s.plan.AddUpgradeOption(room, option)
}

// RemoveUpgrade clears the room's selection while planning
func (s *Session) RemoveUpgrade(room models.RoomType) error {
	if err := s.screen.Expect(screen.Planning); err != nil {
		return err
	}
	s.plan.RemoveUpgrade(room)
	return nil
}

// ShowResults moves from planning to results. The first arrival for a
// property completes the game and updates the player.
func (s *Session) ShowResults() (Outcome, error) {
	if err := s.screen.Expect(screen.Planning); err != nil {
		return Outcome{}, err
	}

	outcome, err := s.outcome()
	if err != nil {
		return Outcome{}, err
	}
	if err := s.screen.Next(s.plan.Count()); err != nil {
		return Outcome{}, err
	}
	s.navigated()

	if !s.completed {
		s.completed = true
		outcome.Unlocked = s.player.Complete(progression.Result{
			ROI:          outcome.Totals.CalculatedROI,
			Profit:       outcome.Profit,
			TotalTime:    outcome.Totals.TotalTime,
			UpgradeCount: s.plan.Count(),
		})

		s.logger.WithFields(logrus.Fields{
			"session_id":  s.id,
			"property_id": s.property.ID,
			"roi":         outcome.Totals.CalculatedROI,
			"rank":        outcome.Rank,
			"unlocked":    len(outcome.Unlocked),
			"xp":          s.player.XP(),
		}).Info("Game completed")
	}
	return outcome, nil
}

func (s *Session) outcome() (Outcome, error) {
	if s.plan == nil {
		return Outcome{}, renovation.ErrNoProperty
	}
	totals, err := s.plan.Totals()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Totals:   totals,
		Rank:     progression.RankFor(totals.CalculatedROI),
		FinalARV: totals.FinalARV(),
		Profit:   totals.Profit(),
	}, nil
}

// PlayAgain goes back to the start screen and forgets the game. The player
// keeps its progression.
func (s *Session) PlayAgain() error {
	if err := s.screen.PlayAgain(); err != nil {
		return err
	}
	s.property = nil
	s.plan = nil
	s.completed = false
	s.navigated()
	return nil
}

// BeginSubmission marks a results submission as pending and returns the
// ticket FinishSubmission needs
func (s *Session) BeginSubmission(email string, wantsTrial bool) (Ticket, error) {
	if err := s.screen.Expect(screen.Results); err != nil {
		return Ticket{}, err
	}
	if s.submission.pending {
		return Ticket{}, ErrSubmissionInProgress
	}
	if s.submission.submitted {
		return Ticket{}, ErrAlreadySubmitted
	}

	outcome, err := s.outcome()
	if err != nil {
		return Ticket{}, err
	}

	s.submission.pending = true
	s.submission.lastErr = nil
	return Ticket{
		generation: s.generation,
		PropertyID: s.property.ID,
		ROI:        outcome.Totals.CalculatedROI,
		Rank:       outcome.Rank,
		Submission: submission.Submission{
			ID:         uuid.NewString(),
			Email:      email,
			WantsTrial: wantsTrial,
			Params: submission.TemplateParams{
				UserEmail:       email,
				UserName:        submission.UserName(email),
				PropertyAddress: s.property.Address,
				FinalROI:        display.Percent(outcome.Totals.CalculatedROI, true),
				InvestorRank:    string(outcome.Rank),
				TotalProfit:     display.Currency(outcome.Profit),
				FinalARV:        display.Currency(outcome.FinalARV),
				WantsTrial:      submission.YesNo(wantsTrial),
			},
		},
	}, nil
}

// FinishSubmission applies the result of the external call. If the player
// navigated away in the meantime the result is dropped untouched.
func (s *Session) FinishSubmission(ticket Ticket, sendErr error) error {
	if ticket.generation != s.generation {
		return ErrSubmissionDiscarded
	}

	s.submission.pending = false
	if sendErr != nil {
		s.submission.lastErr = sendErr
		if errors.Is(sendErr, submission.ErrSubmissionFailed) {
			return sendErr
		}
		return fmt.Errorf("%w: %v", submission.ErrSubmissionFailed, sendErr)
	}

	s.submission.submitted = true
	s.submission.email = ticket.Submission.Email
	s.submission.wantsTrial = ticket.Submission.WantsTrial
	return nil
}
