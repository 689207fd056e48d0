package database

import (
	"log"

	"inventory-manager/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog records one change. Failures are logged and swallowed so
// the audit trail never blocks the write it describes.
func CreateAuditLog(db *gorm.DB, actor *models.User, entity string, entityID uint, action, details string) {
	if db == nil {
		return
	}
	record := models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if actor != nil {
		record.UserID = actor.ID
		record.Username = actor.Username
	}
	if err := db.Create(&record).Error; err != nil {
		log.Printf("failed to write audit log (%s %s #%d): %v", action, entity, entityID, err)
	}
}

// RecentAuditLogs returns the newest records first.
func RecentAuditLogs(db *gorm.DB, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}
