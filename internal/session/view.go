package session

import (
	"errors"

	"flipquest/internal/display"
	"flipquest/internal/models"
	"flipquest/internal/progression"
	"flipquest/internal/renovation"
	"flipquest/internal/screen"
)

type SelectedUpgrade struct {
	Room      models.RoomType `json:"room"`
	RoomTitle string          `json:"room_title"`
	RoomIcon  string          `json:"room_icon"`
	Upgrade   models.Upgrade  `json:"upgrade"`
}

type PropertyView struct {
	*models.Property
	PotentialROI string `json:"potential_roi"`
}

type SubmissionView struct {
	Pending    bool   `json:"pending"`
	Submitted  bool   `json:"submitted"`
	Email      string `json:"email,omitempty"`
	WantsTrial bool   `json:"wants_trial"`
	Error      string `json:"error,omitempty"`
}

// View is a read-only snapshot of the session for display
type View struct {
	SessionID      string                    `json:"session_id"`
	Screen         screen.State              `json:"screen"`
	Property       *PropertyView             `json:"property,omitempty"`
	Selected       []SelectedUpgrade         `json:"selected_upgrades"`
	Totals         *renovation.Totals        `json:"totals,omitempty"`
	ROI            string                    `json:"roi"`
	Rank           progression.Rank          `json:"rank,omitempty"`
	RankEmoji      string                    `json:"rank_emoji,omitempty"`
	Timeline       renovation.TimelineStatus `json:"timeline,omitempty"`
	FinalARV       string                    `json:"final_arv,omitempty"`
	Profit         string                    `json:"profit,omitempty"`
	UpgradesChosen int                       `json:"upgrades_chosen"`
	RoomsOnOffer   int                       `json:"rooms_on_offer"`
	Completed      bool                      `json:"completed"`
	Submission     SubmissionView            `json:"submission"`
}

// Snapshot renders the current state. An undefined ROI shows as N/A.
func (s *Session) Snapshot() View {
	v := View{
		SessionID: s.id,
		Screen:    s.screen.Current(),
		Selected:  []SelectedUpgrade{},
		ROI:       display.NotAvailable,
		Completed: s.completed,
		Submission: SubmissionView{
			Pending:    s.submission.pending,
			Submitted:  s.submission.submitted,
			Email:      s.submission.email,
			WantsTrial: s.submission.wantsTrial,
		},
	}
	if s.submission.lastErr != nil {
		v.Submission.Error = s.submission.lastErr.Error()
	}

	if s.property == nil {
		return v
	}

	pv := &PropertyView{Property: s.property, PotentialROI: display.NotAvailable}
	if roi, err := s.property.PotentialROI(); err == nil {
		pv.PotentialROI = display.Percent(roi, true)
	}
	v.Property = pv

	if s.plan == nil {
		return v
	}

	selection := s.plan.Selection()
	for _, rt := range s.property.RoomTypes() {
		if u, ok := selection[rt]; ok {
			v.Selected = append(v.Selected, SelectedUpgrade{
				Room:      rt,
				RoomTitle: rt.Title(),
				RoomIcon:  rt.Icon(),
				Upgrade:   u,
			})
		}
	}
	v.UpgradesChosen, v.RoomsOnOffer = s.plan.Progress()

	totals, err := s.plan.Totals()
	if err != nil && !errors.Is(err, models.ErrDegenerateInvestment) {
		return v
	}
	v.Totals = &totals
	v.Timeline = renovation.TimelineFor(totals.TotalTime)
	v.FinalARV = display.Currency(totals.FinalARV())
	v.Profit = display.Currency(totals.Profit())
	if totals.ROIDefined {
		v.ROI = display.Percent(totals.CalculatedROI, true)
		v.Rank = progression.RankFor(totals.CalculatedROI)
		v.RankEmoji = v.Rank.Emoji()
	}
	return v
}
