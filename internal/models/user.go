package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleInstructor UserRole = "Instructor"
	RoleStudent    UserRole = "Student"
)

// Roles lists every role a user can hold
var Roles = []UserRole{RoleInstructor, RoleStudent}

// ParseRole maps a role name to its canonical value, ignoring case.
func ParseRole(s string) (UserRole, error) {
	for _, role := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(role)) {
			return role, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", s)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleInstructor, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:2000"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:300"`
	Role         UserRole  `json:"role" gorm:"not null;size:20;index"`
	PasswordHash string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
