package progression

// Rank is the investor title earned by a flip's ROI
type Rank string

const (
	RankDealDestroyer   Rank = "Deal Destroyer"
	RankSavvyFlipper    Rank = "Savvy Flipper"
	RankRisingInvestor  Rank = "Rising Investor"
	RankWeekendWarrior  Rank = "Weekend Warrior"
	RankRookieRenovator Rank = "Rookie Renovator"
)

// RankFor returns the highest band whose threshold the ROI (percent) reaches
func RankFor(roi float64) Rank {
	switch {
	case roi >= 25:
		return RankDealDestroyer
	case roi >= 20:
		return RankSavvyFlipper
	case roi >= 15:
		return RankRisingInvestor
	case roi >= 10:
		return RankWeekendWarrior
	default:
		return RankRookieRenovator
	}
}

func (r Rank) Emoji() string {
	switch r {
	case RankDealDestroyer:
		return "🏆"
	case RankSavvyFlipper:
		return "💰"
	case RankRisingInvestor:
		return "📈"
	case RankWeekendWarrior:
		return "🔨"
	default:
		return "🏠"
	}
}
