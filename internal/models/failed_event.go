package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FailedEvent records an event that could not be published after its transaction committed
type FailedEvent struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Topic     string         `json:"topic" gorm:"not null;size:255;index"`
	EventType string         `json:"event_type" gorm:"not null;size:100"`
	Payload   datatypes.JSON `json:"payload" gorm:"not null"`
	Error     string         `json:"error" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
}

func (FailedEvent) TableName() string {
	return "failed_events"
}

func (e *FailedEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
