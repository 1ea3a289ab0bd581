package renovation

// TimelineStatus buckets the total renovation time in days
type TimelineStatus string

const (
	TimelineRapid    TimelineStatus = "Rapid Flip"
	TimelineStandard TimelineStatus = "Standard Timeline"
	TimelineExtended TimelineStatus = "Extended Project"
	TimelineLongTerm TimelineStatus = "Long-term Investment"
)

func TimelineFor(days int) TimelineStatus {
	switch {
	case days <= 60:
		return TimelineRapid
	case days <= 90:
		return TimelineStandard
	case days <= 120:
		return TimelineExtended
	default:
		return TimelineLongTerm
	}
}
