package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Result struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Score        int       `json:"score" gorm:"not null"`
	AttemptDate  time.Time `json:"attempt_date" gorm:"not null"`
	AssessmentID uuid.UUID `json:"assessment_id" gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Assessment *Assessment `json:"assessment,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE"`
	User       *User       `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Result) TableName() string {
	return "results"
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
