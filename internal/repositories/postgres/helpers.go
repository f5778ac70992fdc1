package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/repositories"
)

// notFoundOr maps gorm's missing-row error to ErrNotFound and wraps anything else
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
