package session

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipquest/internal/models"
	"flipquest/internal/progression"
	"flipquest/internal/renovation"
	"flipquest/internal/screen"
	"flipquest/internal/submission"
)

type fixedSource struct {
	property *models.Property
	draws    int
}

func (f *fixedSource) Random() *models.Property {
	f.draws++
	return f.property
}

func testProperty() *models.Property {
	return &models.Property{
		ID:               1,
		Address:          "742 Evergreen Terrace",
		AsIsValue:        200000,
		RepairBudget:     30000,
		AfterRepairValue: 280000,
		Rooms: map[models.RoomType]models.Room{
			models.RoomKitchen: {
				CurrentCondition: "dated",
				RepairOptions: []models.Upgrade{
					{Name: "Quartz Counters & Appliances", Cost: 15000, TimeAdded: 20, ROIBoost: 0.05},
					{Name: "Full Gut Remodel", Cost: 60000, TimeAdded: 50, ROIBoost: 0.12},
				},
			},
			models.RoomBathroom: {
				CurrentCondition: "worn",
				RepairOptions: []models.Upgrade{
					{Name: "Vanity Swap", Cost: 5000, TimeAdded: 7, ROIBoost: 0.02},
				},
			},
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestSession(p *models.Property) *Session {
	return New(&fixedSource{property: p}, progression.NewPlayer(nil), quietLogger())
}

// toResults drives a session from start to results with the kitchen upgrade
func toResults(t *testing.T, s *Session) Outcome {
	t.Helper()
	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())
	_, err = s.AddUpgrade(models.RoomKitchen, 0)
	require.NoError(t, err)
	outcome, err := s.ShowResults()
	require.NoError(t, err)
	return outcome
}

func TestSession_KitchenScenario(t *testing.T) {
	s := newTestSession(testProperty())

	outcome := toResults(t, s)

	assert.Equal(t, screen.Results, s.Screen())
	assert.Equal(t, 15000, outcome.Totals.TotalCost)
	assert.Equal(t, 20, outcome.Totals.TotalTime)
	assert.Equal(t, 215000, outcome.Totals.TotalInvestment)
	assert.InDelta(t, 36.74, outcome.Totals.CalculatedROI, 0.01)
	assert.Equal(t, progression.RankDealDestroyer, outcome.Rank)
	assert.Equal(t, int64(294000), outcome.FinalARV)
	assert.Equal(t, int64(79000), outcome.Profit)

	ids := make([]models.AchievementID, 0, len(outcome.Unlocked))
	for _, a := range outcome.Unlocked {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []models.AchievementID{
		models.AchievementROIMaster,
		models.AchievementSpeedDemon,
		models.AchievementBigProfit,
		models.AchievementFirstFlip,
	}, ids)
	assert.Equal(t, 1050, s.Player().XP())
	assert.Equal(t, 2, s.Player().Level())
}

func TestSession_ShowResultsNeedsAnUpgrade(t *testing.T) {
	s := newTestSession(testProperty())
	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())

	_, err = s.ShowResults()
	assert.ErrorIs(t, err, screen.ErrNoUpgradesSelected)
	assert.Equal(t, screen.Planning, s.Screen())
	assert.Zero(t, s.Player().Stats().PropertiesFlipped)
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := newTestSession(testProperty())

	_, err := s.AddUpgrade(models.RoomKitchen, 0)
	assert.ErrorIs(t, err, screen.ErrInvalidTransition)

	assert.ErrorIs(t, s.RemoveUpgrade(models.RoomKitchen), screen.ErrInvalidTransition)
	assert.ErrorIs(t, s.StartRenovation(), screen.ErrInvalidTransition)
	assert.ErrorIs(t, s.PlayAgain(), screen.ErrInvalidTransition)
	assert.ErrorIs(t, s.AdjustPlan(), screen.ErrInvalidTransition)
	assert.ErrorIs(t, s.Back(), screen.ErrInvalidTransition)

	_, err = s.ShowResults()
	assert.ErrorIs(t, err, screen.ErrInvalidTransition)

	_, err = s.BeginSubmission("jane@example.com", false)
	assert.ErrorIs(t, err, screen.ErrInvalidTransition)

	assert.Equal(t, screen.Start, s.Screen())
}

func TestSession_EmptyCatalog(t *testing.T) {
	s := New(&fixedSource{}, nil, quietLogger())

	_, err := s.Begin()
	assert.ErrorIs(t, err, renovation.ErrNoProperty)
	assert.Equal(t, screen.Start, s.Screen())
}

func TestSession_UnknownOption(t *testing.T) {
	s := newTestSession(testProperty())
	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())

	_, err = s.AddUpgrade(models.RoomExterior, 0)
	assert.ErrorIs(t, err, renovation.ErrInvalidSelection)

	_, err = s.AddUpgrade(models.RoomKitchen, 5)
	assert.ErrorIs(t, err, renovation.ErrUnknownUpgrade)
}

func TestSession_AdjustPlanDoesNotCompleteTwice(t *testing.T) {
	s := newTestSession(testProperty())
	toResults(t, s)
	xp := s.Player().XP()

	require.NoError(t, s.AdjustPlan())
	assert.Equal(t, screen.Planning, s.Screen())
	assert.Equal(t, 1, s.Snapshot().UpgradesChosen)

	_, err := s.AddUpgrade(models.RoomBathroom, 0)
	require.NoError(t, err)
	outcome, err := s.ShowResults()
	require.NoError(t, err)

	assert.Empty(t, outcome.Unlocked)
	assert.Equal(t, 20000, outcome.Totals.TotalCost)
	assert.Equal(t, 1, s.Player().Stats().PropertiesFlipped)
	assert.Equal(t, xp, s.Player().XP())
}

func TestSession_ReplayingPropertyDoesNotCompleteAgain(t *testing.T) {
	s := newTestSession(testProperty())
	toResults(t, s)
	xp := s.Player().XP()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.AdjustPlan())
		require.NoError(t, s.Back())
		require.Equal(t, screen.PropertyReview, s.Screen())
		require.NoError(t, s.StartRenovation())
		_, err := s.AddUpgrade(models.RoomKitchen, 0)
		require.NoError(t, err)

		outcome, err := s.ShowResults()
		require.NoError(t, err)
		assert.Empty(t, outcome.Unlocked)
		assert.True(t, s.Snapshot().Completed)
	}

	assert.Equal(t, 1, s.Player().Stats().PropertiesFlipped)
	assert.Equal(t, xp, s.Player().XP())
	assert.False(t, s.Player().HasAchievement(models.AchievementSerialFlipper))
}

func TestSession_StartRenovationResetsSelection(t *testing.T) {
	s := newTestSession(testProperty())
	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())
	_, err = s.AddUpgrade(models.RoomKitchen, 0)
	require.NoError(t, err)

	require.NoError(t, s.Back())
	assert.Equal(t, screen.PropertyReview, s.Screen())
	require.NoError(t, s.StartRenovation())
	assert.Zero(t, s.Snapshot().UpgradesChosen)
}

func TestSession_BackToStartDropsProperty(t *testing.T) {
	s := newTestSession(testProperty())
	_, err := s.Begin()
	require.NoError(t, err)

	require.NoError(t, s.Back())
	assert.Equal(t, screen.Start, s.Screen())
	assert.Nil(t, s.Property())
	assert.Nil(t, s.Snapshot().Property)
}

func TestSession_DegenerateInvestmentStaysOnPlanning(t *testing.T) {
	p := testProperty()
	p.AsIsValue = 0
	p.RepairBudget = 0
	p.Rooms[models.RoomBathroom] = models.Room{
		CurrentCondition: "fine",
		RepairOptions:    []models.Upgrade{{Name: "Free Paint", Cost: 0, TimeAdded: 1}},
	}
	s := newTestSession(p)
	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())
	_, err = s.AddUpgrade(models.RoomBathroom, 0)
	require.NoError(t, err)

	_, err = s.ShowResults()
	assert.ErrorIs(t, err, models.ErrDegenerateInvestment)
	assert.Equal(t, screen.Planning, s.Screen())
	assert.Equal(t, "N/A", s.Snapshot().ROI)
}

func TestSession_PlayAgainKeepsPlayer(t *testing.T) {
	src := &fixedSource{property: testProperty()}
	s := New(src, progression.NewPlayer(nil), quietLogger())
	toResults(t, s)

	require.NoError(t, s.PlayAgain())
	assert.Equal(t, screen.Start, s.Screen())
	assert.Nil(t, s.Property())

	outcome := toResults(t, s)
	assert.Equal(t, 2, src.draws)
	assert.Empty(t, outcome.Unlocked)
	assert.Equal(t, 2, s.Player().Stats().PropertiesFlipped)
	assert.Equal(t, 1050, s.Player().XP())
}

func TestSession_BeginSubmission(t *testing.T) {
	s := newTestSession(testProperty())
	toResults(t, s)

	ticket, err := s.BeginSubmission("jane.doe@example.com", true)
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.Submission.ID)
	assert.Equal(t, int64(1), ticket.PropertyID)
	assert.Equal(t, progression.RankDealDestroyer, ticket.Rank)
	assert.Equal(t, submission.TemplateParams{
		UserEmail:       "jane.doe@example.com",
		UserName:        "jane.doe",
		PropertyAddress: "742 Evergreen Terrace",
		FinalROI:        "36.7%",
		InvestorRank:    "Deal Destroyer",
		TotalProfit:     "$79,000",
		FinalARV:        "$294,000",
		WantsTrial:      "Yes",
	}, ticket.Submission.Params)

	_, err = s.BeginSubmission("jane.doe@example.com", true)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	assert.True(t, s.Snapshot().Submission.Pending)
}

func TestSession_FailedSubmissionCanBeRetried(t *testing.T) {
	s := newTestSession(testProperty())
	toResults(t, s)

	ticket, err := s.BeginSubmission("jane@example.com", false)
	require.NoError(t, err)

	err = s.FinishSubmission(ticket, errors.New("connection reset"))
	assert.ErrorIs(t, err, submission.ErrSubmissionFailed)
	view := s.Snapshot()
	assert.False(t, view.Submission.Pending)
	assert.False(t, view.Submission.Submitted)
	assert.NotEmpty(t, view.Submission.Error)

	ticket, err = s.BeginSubmission("jane@example.com", false)
	require.NoError(t, err)
	require.NoError(t, s.FinishSubmission(ticket, nil))

	view = s.Snapshot()
	assert.True(t, view.Submission.Submitted)
	assert.Equal(t, "jane@example.com", view.Submission.Email)
	assert.Empty(t, view.Submission.Error)

	_, err = s.BeginSubmission("jane@example.com", false)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSession_StaleSubmissionIsDiscarded(t *testing.T) {
	s := newTestSession(testProperty())
	toResults(t, s)

	ticket, err := s.BeginSubmission("jane@example.com", false)
	require.NoError(t, err)

	require.NoError(t, s.AdjustPlan())
	_, err = s.ShowResults()
	require.NoError(t, err)

	err = s.FinishSubmission(ticket, nil)
	assert.ErrorIs(t, err, ErrSubmissionDiscarded)

	view := s.Snapshot()
	assert.False(t, view.Submission.Submitted)
	assert.False(t, view.Submission.Pending)
}

func TestSession_Snapshot(t *testing.T) {
	s := newTestSession(testProperty())

	view := s.Snapshot()
	assert.Equal(t, screen.Start, view.Screen)
	assert.Equal(t, s.ID(), view.SessionID)
	assert.Equal(t, "N/A", view.ROI)
	assert.NotNil(t, view.Selected)

	_, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, s.StartRenovation())
	_, err = s.AddUpgrade(models.RoomKitchen, 0)
	require.NoError(t, err)

	view = s.Snapshot()
	assert.Equal(t, screen.Planning, view.Screen)
	require.NotNil(t, view.Property)
	assert.Equal(t, "21.7%", view.Property.PotentialROI)
	require.Len(t, view.Selected, 1)
	assert.Equal(t, models.RoomKitchen, view.Selected[0].Room)
	assert.Equal(t, "🍳", view.Selected[0].RoomIcon)
	assert.Equal(t, "36.7%", view.ROI)
	assert.Equal(t, progression.RankDealDestroyer, view.Rank)
	assert.Equal(t, progression.RankDealDestroyer.Emoji(), view.RankEmoji)
	assert.Equal(t, renovation.TimelineRapid, view.Timeline)
	assert.Equal(t, "$79,000", view.Profit)
	assert.Equal(t, 1, view.UpgradesChosen)
	assert.Equal(t, 2, view.RoomsOnOffer)
	assert.False(t, view.Completed)
}
