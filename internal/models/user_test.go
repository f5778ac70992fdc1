package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    UserRole
		wantErr bool
	}{
		{"Instructor", RoleInstructor, false},
		{"instructor", RoleInstructor, false},
		{"STUDENT", RoleStudent, false},
		{" student ", RoleStudent, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUserRole_IsValid(t *testing.T) {
	if !RoleInstructor.IsValid() || !RoleStudent.IsValid() {
		t.Error("Known roles should be valid")
	}
	if UserRole("student").IsValid() {
		t.Error("Non-canonical role should not be valid")
	}
	if UserRole("").IsValid() {
		t.Error("Empty role should not be valid")
	}
}

func TestNewUserResponse_OmitsPasswordHash(t *testing.T) {
	user := &User{
		ID:           uuid.New(),
		Name:         "Sam",
		Email:        "sam@example.com",
		Role:         RoleStudent,
		PasswordHash: "$2a$10$secret",
	}

	raw, err := json.Marshal(NewUserResponse(user))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Errorf("Response leaked password hash: %s", raw)
	}

	raw, err = json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(raw), "secret") {
		t.Errorf("Entity JSON leaked password hash: %s", raw)
	}
}

func TestNewResultResponse_UsesRelations(t *testing.T) {
	result := &Result{
		ID:           uuid.New(),
		Score:        80,
		AssessmentID: uuid.New(),
		UserID:       uuid.New(),
		Assessment:   &Assessment{Title: "Midterm", MaxScore: 100},
		User:         &User{Name: "Sam"},
	}

	resp := NewResultResponse(result)
	if resp.AssessmentTitle != "Midterm" || resp.MaxScore != 100 || resp.UserName != "Sam" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.ID != result.ID.String() {
		t.Errorf("Expected stringified id %s, got %s", result.ID, resp.ID)
	}
}
