package services

import (
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// AlertBus persists user alerts and pushes them over the realtime hub.
type AlertBus struct {
	db  *gorm.DB
	hub *RealtimeHub
}

func NewAlertBus(db *gorm.DB, hub *RealtimeHub) *AlertBus {
	return &AlertBus{db: db, hub: hub}
}

func (b *AlertBus) Emit(userID uint, typ, message string) {
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	if b.db != nil {
		_ = b.db.Create(a).Error
	}
	if b.hub != nil {
		b.hub.Broadcast(userID, map[string]any{
			"kind":  "alert.created",
			"alert": a,
		})
	}
}
