package database

import (
	"time"

	"flipquest/internal/models"
)

type PropertyRecord struct {
	ID                  int64 `gorm:"primaryKey;autoIncrement:false"`
	Address             string
	Description         string
	Bedrooms            int
	Bathrooms           float64
	SquareFootage       int
	YearBuilt           int
	AsIsValue           int
	RepairBudget        int
	AfterRepairValue    int
	EstimatedRepairTime int
	Latitude            *float64
	Longitude           *float64
	Rooms               []RoomRecord `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (PropertyRecord) TableName() string { return "properties" }

type RoomRecord struct {
	ID               uint  `gorm:"primaryKey"`
	PropertyID       int64 `gorm:"index"`
	RoomType         string
	CurrentCondition string
	Upgrades         []UpgradeRecord `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (RoomRecord) TableName() string { return "rooms" }

type UpgradeRecord struct {
	ID          uint `gorm:"primaryKey"`
	RoomID      uint `gorm:"index"`
	Position    int
	Name        string
	Cost        int
	TimeAdded   int
	ROIBoost    float64
	Description string
}

func (UpgradeRecord) TableName() string { return "upgrades" }

// SubmissionRecord logs a results email request for the lifetime of the process
type SubmissionRecord struct {
	ID         string `gorm:"primaryKey"`
	SessionID  string `gorm:"index"`
	Email      string
	WantsTrial bool
	PropertyID int64
	ROI        *float64
	Rank       string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SubmissionRecord) TableName() string { return "submissions" }

const (
	SubmissionPending   = "pending"
	SubmissionSent      = "sent"
	SubmissionFailed    = "failed"
	SubmissionDiscarded = "discarded"
)

func toRecord(p models.Property) PropertyRecord {
	rec := PropertyRecord{
		ID:                  p.ID,
		Address:             p.Address,
		Description:         p.Description,
		Bedrooms:            p.Bedrooms,
		Bathrooms:           p.Bathrooms,
		SquareFootage:       p.SquareFootage,
		YearBuilt:           p.YearBuilt,
		AsIsValue:           p.AsIsValue,
		RepairBudget:        p.RepairBudget,
		AfterRepairValue:    p.AfterRepairValue,
		EstimatedRepairTime: p.EstimatedRepairTime,
	}
	if p.Location != nil {
		lat, lon := p.Location.Latitude, p.Location.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lon
	}

	for _, rt := range p.RoomTypes() {
		room := p.Rooms[rt]
		rr := RoomRecord{
			RoomType:         string(rt),
			CurrentCondition: room.CurrentCondition,
		}
		for i, u := range room.RepairOptions {
			rr.Upgrades = append(rr.Upgrades, UpgradeRecord{
				Position:    i,
				Name:        u.Name,
				Cost:        u.Cost,
				TimeAdded:   u.TimeAdded,
				ROIBoost:    u.ROIBoost,
				Description: u.Description,
			})
		}
		rec.Rooms = append(rec.Rooms, rr)
	}
	return rec
}

func (rec PropertyRecord) toModel() (models.Property, error) {
	p := models.Property{
		ID:                  rec.ID,
		Address:             rec.Address,
		Description:         rec.Description,
		Bedrooms:            rec.Bedrooms,
		Bathrooms:           rec.Bathrooms,
		SquareFootage:       rec.SquareFootage,
		YearBuilt:           rec.YearBuilt,
		AsIsValue:           rec.AsIsValue,
		RepairBudget:        rec.RepairBudget,
		AfterRepairValue:    rec.AfterRepairValue,
		EstimatedRepairTime: rec.EstimatedRepairTime,
		Rooms:               make(map[models.RoomType]models.Room, len(rec.Rooms)),
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		p.Location = &models.Location{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}

	for _, rr := range rec.Rooms {
		rt, err := models.ParseRoomType(rr.RoomType)
		if err != nil {
			return models.Property{}, err
		}
		room := models.Room{CurrentCondition: rr.CurrentCondition}
		for _, u := range rr.Upgrades {
			room.RepairOptions = append(room.RepairOptions, models.Upgrade{
				Name:        u.Name,
				Cost:        u.Cost,
				TimeAdded:   u.TimeAdded,
				ROIBoost:    u.ROIBoost,
				Description: u.Description,
			})
		}
		p.Rooms[rt] = room
	}
	return p, nil
}
