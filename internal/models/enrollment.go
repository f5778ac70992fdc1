package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment joins a Student to a Course. The composite key keeps each pair unique.
type Enrollment struct {
	CourseID  uuid.UUID `json:"course_id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "student_courses"
}
