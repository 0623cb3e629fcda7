package sqlstore

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or alters the document tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRow{},
		&enrollmentRow{},
		&attemptRow{},
	)
}
