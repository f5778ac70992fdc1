package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title        string    `json:"title" gorm:"not null;size:200"`
	Description  *string   `json:"description" gorm:"size:200"`
	MediaURL     *string   `json:"media_url" gorm:"column:media_url;size:200"`
	InstructorID uuid.UUID `json:"instructor_id" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Instructor *User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// InstructorName returns the preloaded instructor's name, or "" when not loaded
func (c *Course) InstructorName() string {
	if c.Instructor == nil {
		return ""
	}
	return c.Instructor.Name
}
