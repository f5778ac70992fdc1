package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func fieldsOf(err error) map[string]string {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, e := range ve {
		out[e.Field] = e.Rule
	}
	return out
}

func TestValidate_Register(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
		wantRule  string
	}{
		{
			name: "valid",
			req:  RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "Student"},
		},
		{
			name:      "role is case insensitive but must be known",
			req:       RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "Admin"},
			wantField: "role",
			wantRule:  "user_role",
		},
		{
			name:      "blank name",
			req:       RegisterRequest{Name: "   ", Email: "ada@example.com", Password: "secret1", Role: "student"},
			wantField: "name",
			wantRule:  "not_blank",
		},
		{
			name:      "bad email",
			req:       RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "secret1", Role: "Student"},
			wantField: "email",
			wantRule:  "email",
		},
		{
			name:      "short password",
			req:       RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "123", Role: "Student"},
			wantField: "password",
			wantRule:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			fields := fieldsOf(err)
			if fields[tt.wantField] != tt.wantRule {
				t.Errorf("Expected %s to fail %s, got %v", tt.wantField, tt.wantRule, fields)
			}
		})
	}
}

func TestValidate_Assessment(t *testing.T) {
	v := New()

	req := AssessmentCreateRequest{
		Title:     "Quiz",
		Questions: `[{"q":"1+1"}]`,
		MaxScore:  10,
		CourseID:  uuid.New(),
	}
	if err := v.Validate(&req); err != nil {
		t.Fatalf("Expected valid request, got %v", err)
	}

	req.Questions = "{not json"
	req.MaxScore = -1
	req.CourseID = uuid.Nil
	fields := fieldsOf(v.Validate(&req))
	if fields["questions"] != "json_payload" {
		t.Errorf("Expected questions to fail json_payload, got %v", fields)
	}
	if fields["maxScore"] != "gte" {
		t.Errorf("Expected maxScore to fail gte, got %v", fields)
	}
	if fields["courseId"] != "required" {
		t.Errorf("Expected courseId to be required, got %v", fields)
	}
}

func TestValidate_ResultRequiresAttemptDate(t *testing.T) {
	v := New()

	err := v.Validate(&ResultCreateRequest{Score: 5, AssessmentID: uuid.New()})
	if fieldsOf(err)["attemptDate"] != "required" {
		t.Errorf("Expected attemptDate to be required, got %v", err)
	}

	if err := v.Validate(&ResultUpdateRequest{Score: 5, AttemptDate: time.Now()}); err != nil {
		t.Errorf("Expected valid update, got %v", err)
	}
}

func TestValidate_CourseDescriptionLength(t *testing.T) {
	v := New()

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	desc := string(long)

	err := v.Validate(&CourseCreateRequest{Title: "Go", Description: &desc})
	if fieldsOf(err)["description"] != "max" {
		t.Errorf("Expected description to fail max, got %v", err)
	}
	if err := v.Validate(&CourseCreateRequest{Title: "Go"}); err != nil {
		t.Errorf("Description should be optional, got %v", err)
	}
}

func TestBusinessValidator_CourseMedia(t *testing.T) {
	bv := New().GetBusinessValidator()

	if errs := bv.ValidateCourseMedia("intro.mp4", 1024); len(errs) != 0 {
		t.Errorf("Expected valid media, got %v", errs)
	}
	if errs := bv.ValidateCourseMedia("empty.pdf", 0); len(errs) != 1 {
		t.Errorf("Expected empty file to be rejected, got %v", errs)
	}
	if errs := bv.ValidateCourseMedia("huge.mov", MaxMediaSize+1); len(errs) != 1 {
		t.Errorf("Expected oversized file to be rejected, got %v", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Field: "email", Message: "is required"}}
	if got := single.Error(); got != "validation failed: email is required" {
		t.Errorf("Unexpected message %q", got)
	}
	multi := ValidationErrors{{Field: "a"}, {Field: "b"}}
	if got := multi.Error(); got != "validation failed: 2 field errors" {
		t.Errorf("Unexpected message %q", got)
	}
}
