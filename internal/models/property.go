package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRoomType      = errors.New("unknown room type")
	ErrDegenerateInvestment = errors.New("total investment must be positive")
)

// RoomType identifies one of the fixed renovation areas of a property
type RoomType string

const (
	RoomKitchen  RoomType = "kitchen"
	RoomBathroom RoomType = "bathroom"
	RoomExterior RoomType = "exterior"
	RoomBonus    RoomType = "bonus"
)

// RoomTypes lists every room type in display order
var RoomTypes = []RoomType{RoomKitchen, RoomBathroom, RoomExterior, RoomBonus}

// ParseRoomType converts a raw key into a RoomType
func ParseRoomType(s string) (RoomType, error) {
	for _, rt := range RoomTypes {
		if string(rt) == s {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoomType, s)
}

// Title returns the display name of the room
func (r RoomType) Title() string {
	switch r {
	case RoomKitchen:
		return "Kitchen"
	case RoomBathroom:
		return "Bathroom"
	case RoomExterior:
		return "Exterior"
	case RoomBonus:
		return "Investor Magic"
	default:
		return "Room"
	}
}

func (r RoomType) Icon() string {
	switch r {
	case RoomKitchen:
		return "🍳"
	case RoomBathroom:
		return "🛁"
	case RoomExterior:
		return "🏡"
	case RoomBonus:
		return "⭐"
	default:
		return "🏠"
	}
}

// Upgrade is a single renovation choice for a room
type Upgrade struct {
	Name        string  `json:"name"`
	Cost        int     `json:"cost"`
	TimeAdded   int     `json:"time_added"`
	ROIBoost    float64 `json:"roi_boost"`
	Description string  `json:"description,omitempty"`
}

type Room struct {
	CurrentCondition string    `json:"current_condition"`
	RepairOptions    []Upgrade `json:"repair_options"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Property struct {
	ID                  int64             `json:"id"`
	Address             string            `json:"address"`
	Description         string            `json:"description"`
	Bedrooms            int               `json:"bedrooms"`
	Bathrooms           float64           `json:"bathrooms"`
	SquareFootage       int               `json:"square_footage"`
	YearBuilt           int               `json:"year_built"`
	AsIsValue           int               `json:"as_is_value"`
	RepairBudget        int               `json:"repair_budget"`
	AfterRepairValue    int               `json:"after_repair_value"`
	EstimatedRepairTime int               `json:"estimated_repair_time"`
	Location            *Location         `json:"location,omitempty"`
	Rooms               map[RoomType]Room `json:"rooms"`
}

// HasRoom reports whether the property offers upgrades for the room type
func (p *Property) HasRoom(room RoomType) bool {
	_, ok := p.Rooms[room]
	return ok
}

// RoomTypes returns the property's room types in display order
func (p *Property) RoomTypes() []RoomType {
	rooms := make([]RoomType, 0, len(p.Rooms))
	for _, rt := range RoomTypes {
		if p.HasRoom(rt) {
			rooms = append(rooms, rt)
		}
	}
	return rooms
}

// PotentialROI is the return of the plain repair plan, before any upgrades
func (p *Property) PotentialROI() (float64, error) {
	investment := p.AsIsValue + p.RepairBudget
	if investment <= 0 {
		return 0, ErrDegenerateInvestment
	}
	profit := p.AfterRepairValue - p.AsIsValue - p.RepairBudget
	return float64(profit) / float64(investment) * 100, nil
}
