package handlers

import (
	"net/http"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const auditPageSize = 200

type AuditHandler struct {
	db *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

// List returns the newest audit records. Admin only, enforced by the router.
func (h *AuditHandler) List(c *gin.Context) {
	logs, err := database.RecentAuditLogs(h.db.WithContext(c.Request.Context()), auditPageSize)
	if err != nil {
		writeError(c, apperr.Internal("failed to load audit logs", err))
		return
	}
	out := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		out = append(out, gin.H{
			"id":         l.ID,
			"created_at": ts(l.CreatedAt),
			"user_id":    l.UserID,
			"username":   l.Username,
			"entity":     l.Entity,
			"entity_id":  l.EntityID,
			"action":     l.Action,
			"details":    l.Details,
		})
	}
	c.JSON(http.StatusOK, gin.H{"logs": out})
}
