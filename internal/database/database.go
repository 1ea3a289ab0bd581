package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"flipquest/internal/models"
)

// InMemory keeps the whole store inside the process; nothing survives a restart
const InMemory = ":memory:"

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dsn string, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// Every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Database{db: db, logger: log}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ReplaceCatalog swaps the stored catalog for the given properties
func (d *Database) ReplaceCatalog(properties []models.Property) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{&UpgradeRecord{}, &RoomRecord{}, &PropertyRecord{}} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}

		for _, p := range properties {
			rec := toRecord(p)
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("failed to insert property %d: %w", p.ID, err)
			}
		}

		d.logger.WithField("properties", len(properties)).Info("Catalog stored")
		return nil
	})
}

func preloadRooms(db *gorm.DB) *gorm.DB {
	return db.Preload("Rooms").Preload("Rooms.Upgrades", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (d *Database) GetAllProperties() ([]models.Property, error) {
	var records []PropertyRecord
	if err := preloadRooms(d.db).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}

	properties := make([]models.Property, 0, len(records))
	for _, rec := range records {
		p, err := rec.toModel()
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", rec.ID, err)
		}
		properties = append(properties, p)
	}
	return properties, nil
}

func (d *Database) SaveSubmission(rec *SubmissionRecord) error {
	if err := d.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

func (d *Database) UpdateSubmissionStatus(id, status string) error {
	res := d.db.Model(&SubmissionRecord{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update submission %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("submission %s not found", id)
	}
	return nil
}

func (d *Database) GetSubmissions(sessionID string) ([]SubmissionRecord, error) {
	var records []SubmissionRecord
	if err := d.db.Where("session_id = ?", sessionID).Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	return records, nil
}
