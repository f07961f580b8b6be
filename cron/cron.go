package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/adminhub/rbac-console/db"
	"github.com/adminhub/rbac-console/models"
)

// Soft-deleted roles and permissions are kept around this long so an
// accidental delete can be undone from the database.
const retention = 30 * 24 * time.Hour

// StartJanitor schedules the nightly purge of soft-deleted records.
func StartJanitor() {
	c := cron.New()
	_, err := c.AddFunc("0 3 * * *", purgeSoftDeleted)
	if err != nil {
		log.Fatalf("Failed to add janitor job: %v", err)
	}
	c.Start()
	log.Println("Janitor scheduler started")
}

// purgeSoftDeleted permanently removes roles and permissions whose soft
// delete is past the retention window.
func purgeSoftDeleted() {
	cutoff := time.Now().Add(-retention)

	result := db.DB.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.Role{})
	if result.Error != nil {
		log.Printf("Janitor failed to purge roles: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Janitor purged %d roles", result.RowsAffected)
	}

	result = db.DB.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.Permission{})
	if result.Error != nil {
		log.Printf("Janitor failed to purge permissions: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Janitor purged %d permissions", result.RowsAffected)
	}
}
