package renovation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"flipquest/internal/models"
)

var (
	ErrNoProperty       = errors.New("no property selected")
	ErrInvalidSelection = errors.New("room is not available on this property")
	ErrUnknownUpgrade   = errors.New("upgrade option does not exist")
)

// Selection holds at most one upgrade per room type
type Selection map[models.RoomType]models.Upgrade

// Upsert stores the upgrade for the room, replacing any earlier choice
func (s Selection) Upsert(room models.RoomType, upgrade models.Upgrade) {
	s[room] = upgrade
}

// Delete removes the room's upgrade. Missing rooms are ignored.
func (s Selection) Delete(room models.RoomType) {
	delete(s, room)
}

// Totals are always derived from the current selection, never stored
type Totals struct {
	TotalCost       int     `json:"total_cost"`
	TotalTime       int     `json:"total_time"`
	TotalROIBoost   float64 `json:"total_roi_boost"`
	EnhancedARV     float64 `json:"enhanced_arv"`
	TotalInvestment int     `json:"total_investment"`
	CalculatedROI   float64 `json:"calculated_roi"`
	ROIDefined      bool    `json:"roi_defined"`
}

// Compute aggregates the selection against the property. When the total
// investment is not positive the ROI is left undefined and
// models.ErrDegenerateInvestment is returned with the other totals filled in.
func Compute(property *models.Property, selection Selection) (Totals, error) {
	var t Totals
	if property == nil {
		return t, ErrNoProperty
	}

	boost := decimal.Zero
	for _, upgrade := range selection {
		t.TotalCost += upgrade.Cost
		t.TotalTime += upgrade.TimeAdded
		boost = boost.Add(decimal.NewFromFloat(upgrade.ROIBoost))
	}

	// Boosts are summed exactly so the result does not depend on map order
	enhanced := decimal.NewFromInt(int64(property.AfterRepairValue)).Mul(decimal.NewFromInt(1).Add(boost))
	t.TotalROIBoost = boost.InexactFloat64()
	t.EnhancedARV = enhanced.InexactFloat64()
	t.TotalInvestment = property.AsIsValue + t.TotalCost
	if t.TotalInvestment <= 0 {
		return t, fmt.Errorf("investment of %d: %w", t.TotalInvestment, models.ErrDegenerateInvestment)
	}

	investment := float64(t.TotalInvestment)
	t.CalculatedROI = (t.EnhancedARV - investment) / investment * 100
	t.ROIDefined = true
	return t, nil
}

// FinalARV is the enhanced ARV rounded to whole currency units
func (t Totals) FinalARV() int64 {
	return decimal.NewFromFloat(t.EnhancedARV).Round(0).IntPart()
}

// Profit is the rounded final ARV minus everything invested
func (t Totals) Profit() int64 {
	return t.FinalARV() - int64(t.TotalInvestment)
}

// Plan binds a selection to the property it was made for
type Plan struct {
	property  *models.Property
	selection Selection
	totals    Totals
	err       error
}

func NewPlan(property *models.Property) *Plan {
	p := &Plan{
		property:  property,
		selection: make(Selection),
	}
	p.recompute()
	return p
}

func (p *Plan) Property() *models.Property {
	return p.property
}

// AddUpgrade selects an upgrade for the room, replacing an earlier choice
func (p *Plan) AddUpgrade(room models.RoomType, upgrade models.Upgrade) error {
	if p.property == nil {
		return ErrNoProperty
	}
	if !p.property.HasRoom(room) {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, room)
	}

	p.selection.Upsert(room, upgrade)
	p.recompute()
	return nil
}

// AddUpgradeOption selects the room's repair option at index
func (p *Plan) AddUpgradeOption(room models.RoomType, index int) (models.Upgrade, error) {
	if p.property == nil {
		return models.Upgrade{}, ErrNoProperty
	}
	r, ok := p.property.Rooms[room]
	if !ok {
		return models.Upgrade{}, fmt.Errorf("%w: %s", ErrInvalidSelection, room)
	}
	if index < 0 || index >= len(r.RepairOptions) {
		return models.Upgrade{}, fmt.Errorf("%w: %s option %d", ErrUnknownUpgrade, room, index)
	}

	upgrade := r.RepairOptions[index]
	if err := p.AddUpgrade(room, upgrade); err != nil {
		return models.Upgrade{}, err
	}
	return upgrade, nil
}

// RemoveUpgrade clears the room's selection if there is one
func (p *Plan) RemoveUpgrade(room models.RoomType) {
	if _, ok := p.selection[room]; !ok {
		return
	}
	p.selection.Delete(room)
	p.recompute()
}

// Selection returns a copy of the current choices
func (p *Plan) Selection() Selection {
	out := make(Selection, len(p.selection))
	for room, upgrade := range p.selection {
		out[room] = upgrade
	}
	return out
}

func (p *Plan) Count() int {
	return len(p.selection)
}

// Totals returns the latest recomputed totals and the degenerate-investment
// error, if any
func (p *Plan) Totals() (Totals, error) {
	return p.totals, p.err
}

// Progress reports selected rooms against rooms on offer
func (p *Plan) Progress() (selected, total int) {
	if p.property == nil {
		return 0, 0
	}
	return len(p.selection), len(p.property.Rooms)
}

func (p *Plan) recompute() {
	p.totals, p.err = Compute(p.property, p.selection)
}
