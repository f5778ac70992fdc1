package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup or a write matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key would be violated
	ErrDuplicate = errors.New("duplicate record")
	// ErrWriteConflict is returned when rows changed between planning and writing
	ErrWriteConflict = errors.New("write conflict")
)

// IsNotFoundError reports whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique key violation
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey)
}
