package database

import (
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/models"
)

// RunMigrations creates or updates the schema for every model.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
