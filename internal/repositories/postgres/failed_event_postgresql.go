package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

// FailedEventPostgreSQL is the outbox of events that could not be published
type FailedEventPostgreSQL struct {
	db *gorm.DB
}

func NewFailedEventPostgreSQL(db *gorm.DB) repositories.FailedEventRepository {
	return &FailedEventPostgreSQL{db: db}
}

func (f *FailedEventPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

func (f *FailedEventPostgreSQL) Create(ctx context.Context, tx *gorm.DB, event *models.FailedEvent) error {
	if err := f.getDB(tx).WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record failed event: %w", err)
	}
	return nil
}

// List returns the most recent failed events first
func (f *FailedEventPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit int) ([]*models.FailedEvent, error) {
	query := f.getDB(tx).WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []*models.FailedEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list failed events: %w", err)
	}
	return events, nil
}
