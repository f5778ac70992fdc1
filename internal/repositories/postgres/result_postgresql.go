package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

// ResultPostgreSQL stores submitted results. Results are read with their
// assessment and user attached and are not cached.
type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	if err := r.getDB(tx).WithContext(ctx).Omit("Assessment", "User").Create(result).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Result, error) {
	var result models.Result
	err := r.getDB(tx).WithContext(ctx).
		Preload("Assessment").
		Preload("User").
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		return nil, notFoundOr(err, "failed to get result")
	}
	return &result, nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResultFilters) ([]*models.Result, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Result{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.AssessmentID != nil {
		query = query.Where("assessment_id = ?", *filters.AssessmentID)
	}

	var results []*models.Result
	if err := query.
		Preload("Assessment").
		Preload("User").
		Order("attempt_date DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) Update(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	res := r.getDB(tx).WithContext(ctx).Model(&models.Result{}).Where("id = ?", result.ID).Updates(map[string]interface{}{
		"score":        result.Score,
		"attempt_date": result.AttemptDate,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
