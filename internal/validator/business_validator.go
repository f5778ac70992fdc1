package validator

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/edusync-service/internal/models"
)

// BusinessValidator holds checks that struct tags cannot express
type BusinessValidator struct{}

func registerRules(validate *validator.Validate) {
	validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRole(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Questions are stored opaquely but must at least be JSON
	validate.RegisterValidation("json_payload", func(fl validator.FieldLevel) bool {
		return json.Valid([]byte(fl.Field().String()))
	})
}

// MaxMediaSize bounds course media uploads
const MaxMediaSize = 100 << 20

// ValidateCourseMedia checks an uploaded course file before it is sent to storage
func (bv *BusinessValidator) ValidateCourseMedia(filename string, size int64) ValidationErrors {
	var errors ValidationErrors
	if strings.TrimSpace(filename) == "" {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "must have a file name",
			Rule:    "business_logic",
		})
	}
	if size <= 0 {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "must not be empty",
			Value:   size,
			Rule:    "business_logic",
		})
	}
	if size > MaxMediaSize {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: "must be at most 100MB",
			Value:   size,
			Rule:    "business_logic",
		})
	}
	return errors
}
