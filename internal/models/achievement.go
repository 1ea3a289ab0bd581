package models

import "time"

// AchievementID identifies an unlockable achievement
type AchievementID string

const (
	AchievementROIMaster     AchievementID = "roi_master"
	AchievementDealDestroyer AchievementID = "deal_destroyer"
	AchievementSavvyFlipper  AchievementID = "savvy_flipper"
	AchievementSpeedDemon    AchievementID = "speed_demon"
	AchievementQuickFlipper  AchievementID = "quick_flipper"
	AchievementSixFigureFlip AchievementID = "six_figure_flip"
	AchievementBigProfit     AchievementID = "big_profit"
	AchievementFirstFlip     AchievementID = "first_flip"
	AchievementSerialFlipper AchievementID = "serial_flipper"
)

// Achievement is a one-time milestone. UnlockedAt is nil for definitions.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Rarity      int           `json:"rarity"`
	Points      int           `json:"points"`
	UnlockedAt  *time.Time    `json:"unlocked_at,omitempty"`
}

// Achievements holds every achievement definition keyed by id
var Achievements = map[AchievementID]Achievement{
	AchievementROIMaster: {
		ID:          AchievementROIMaster,
		Title:       "ROI Master",
		Description: "Finish a flip with an ROI of 30% or more",
		Icon:        "👑",
		Rarity:      5,
		Points:      500,
	},
	AchievementDealDestroyer: {
		ID:          AchievementDealDestroyer,
		Title:       "Deal Destroyer",
		Description: "Finish a flip with an ROI of 25% or more",
		Icon:        "🏆",
		Rarity:      4,
		Points:      300,
	},
	AchievementSavvyFlipper: {
		ID:          AchievementSavvyFlipper,
		Title:       "Savvy Flipper",
		Description: "Finish a flip with an ROI of 20% or more",
		Icon:        "💰",
		Rarity:      3,
		Points:      200,
	},
	AchievementSpeedDemon: {
		ID:          AchievementSpeedDemon,
		Title:       "Speed Demon",
		Description: "Finish a flip in 45 days or less",
		Icon:        "⚡",
		Rarity:      4,
		Points:      250,
	},
	AchievementQuickFlipper: {
		ID:          AchievementQuickFlipper,
		Title:       "Quick Flipper",
		Description: "Finish a flip in 60 days or less",
		Icon:        "⏱️",
		Rarity:      2,
		Points:      150,
	},
	AchievementSixFigureFlip: {
		ID:          AchievementSixFigureFlip,
		Title:       "Six Figure Flip",
		Description: "Earn $100,000 or more on a single flip",
		Icon:        "💎",
		Rarity:      5,
		Points:      400,
	},
	AchievementBigProfit: {
		ID:          AchievementBigProfit,
		Title:       "Big Profit",
		Description: "Earn $50,000 or more on a single flip",
		Icon:        "💵",
		Rarity:      3,
		Points:      200,
	},
	AchievementFirstFlip: {
		ID:          AchievementFirstFlip,
		Title:       "First Flip",
		Description: "Complete your first property",
		Icon:        "🎯",
		Rarity:      1,
		Points:      100,
	},
	AchievementSerialFlipper: {
		ID:          AchievementSerialFlipper,
		Title:       "Serial Flipper",
		Description: "Complete five properties",
		Icon:        "🔥",
		Rarity:      4,
		Points:      300,
	},
}
