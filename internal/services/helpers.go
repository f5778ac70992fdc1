package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

// deleteCascade plans and removes root and its dependents in one transaction.
// The root must already be known to exist.
func deleteCascade(ctx context.Context, repo repositories.Repository, kind cascade.Kind, id uuid.UUID) error {
	var plan *cascade.Plan
	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		plan, err = cascade.NewPlanner(txRepo.Cascade().Graph(nil)).PlanDeletion(ctx, kind, id)
		if err != nil {
			return err
		}
		return txRepo.Cascade().Execute(ctx, nil, plan)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete %s %s: %w", ErrPersistence, kind, id, err)
	}

	repo.Cascade().Invalidate(ctx, plan)
	return nil
}
