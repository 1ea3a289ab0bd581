package progression

import (
	"time"

	"flipquest/internal/models"
)

const xpPerLevel = 1000

// Result is the outcome of one finished property
type Result struct {
	ROI          float64
	Profit       int64
	TotalTime    int
	UpgradeCount int
}

type Stats struct {
	PropertiesFlipped int     `json:"properties_flipped"`
	TotalProfit       int64   `json:"total_profit"`
	AverageROI        float64 `json:"average_roi"`
	FastestFlipDays   int     `json:"fastest_flip_days"`
	HighestROI        float64 `json:"highest_roi"`
	UpgradesUsed      int     `json:"upgrades_used"`
}

// Player is the cumulative progression of one process lifetime. It is owned
// by the session and survives "play again".
type Player struct {
	xp           int
	achievements []models.Achievement
	unlocked     map[models.AchievementID]bool
	stats        Stats
	now          func() time.Time
}

// NewPlayer creates a fresh player. A nil clock uses time.Now.
func NewPlayer(now func() time.Time) *Player {
	if now == nil {
		now = time.Now
	}
	return &Player{
		unlocked: make(map[models.AchievementID]bool),
		now:      now,
	}
}

func (p *Player) XP() int {
	return p.xp
}

func (p *Player) Level() int {
	return p.xp/xpPerLevel + 1
}

func (p *Player) Stats() Stats {
	return p.stats
}

// Achievements returns unlocked achievements in unlock order
func (p *Player) Achievements() []models.Achievement {
	out := make([]models.Achievement, len(p.achievements))
	copy(out, p.achievements)
	return out
}

func (p *Player) HasAchievement(id models.AchievementID) bool {
	return p.unlocked[id]
}

// Complete folds a finished flip into the player's stats and unlocks any
// achievements it qualifies for. It returns only the newly unlocked ones.
func (p *Player) Complete(result Result) []models.Achievement {
	first := p.stats.PropertiesFlipped == 0
	count := float64(p.stats.PropertiesFlipped)

	p.stats.AverageROI = (p.stats.AverageROI*count + result.ROI) / (count + 1)
	p.stats.PropertiesFlipped++
	p.stats.TotalProfit += result.Profit
	p.stats.UpgradesUsed += result.UpgradeCount
	if first || result.TotalTime < p.stats.FastestFlipDays {
		p.stats.FastestFlipDays = result.TotalTime
	}
	if first || result.ROI > p.stats.HighestROI {
		p.stats.HighestROI = result.ROI
	}

	var unlocked []models.Achievement
	for _, id := range Qualifying(result, p.stats) {
		if p.HasAchievement(id) {
			continue
		}
		a := models.Achievements[id]
		now := p.now()
		a.UnlockedAt = &now
		p.unlocked[id] = true
		p.achievements = append(p.achievements, a)
		p.xp += a.Points
		unlocked = append(unlocked, a)
	}
	return unlocked
}

// Qualifying lists the achievements a result earns given the stats already
// updated for it. Tiers within a group are exclusive.
func Qualifying(result Result, stats Stats) []models.AchievementID {
	var ids []models.AchievementID

	switch {
	case result.ROI >= 30:
		ids = append(ids, models.AchievementROIMaster)
	case result.ROI >= 25:
		ids = append(ids, models.AchievementDealDestroyer)
	case result.ROI >= 20:
		ids = append(ids, models.AchievementSavvyFlipper)
	}

	switch {
	case result.TotalTime <= 45:
		ids = append(ids, models.AchievementSpeedDemon)
	case result.TotalTime <= 60:
		ids = append(ids, models.AchievementQuickFlipper)
	}

	switch {
	case result.Profit >= 100000:
		ids = append(ids, models.AchievementSixFigureFlip)
	case result.Profit >= 50000:
		ids = append(ids, models.AchievementBigProfit)
	}

	switch stats.PropertiesFlipped {
	case 1:
		ids = append(ids, models.AchievementFirstFlip)
	case 5:
		ids = append(ids, models.AchievementSerialFlipper)
	}

	return ids
}

// Profile is a read-only view of the player for display
type Profile struct {
	XP           int                  `json:"xp"`
	Level        int                  `json:"level"`
	NextLevelXP  int                  `json:"next_level_xp"`
	Achievements []models.Achievement `json:"achievements"`
	Stats        Stats                `json:"stats"`
}

func (p *Player) Profile() Profile {
	return Profile{
		XP:           p.xp,
		Level:        p.Level(),
		NextLevelXP:  p.Level() * xpPerLevel,
		Achievements: p.Achievements(),
		Stats:        p.stats,
	}
}
