package database

// RunMigrations creates the catalog and submission tables
func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(
		&PropertyRecord{},
		&RoomRecord{},
		&UpgradeRecord{},
		&SubmissionRecord{},
	); err != nil {
		return err
	}

	// Rooms are looked up per property and type
	return d.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_rooms_property_type
		ON rooms(property_id, room_type);
	`).Error
}
