package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	ID        string         `gorm:"type:varchar(36);primary_key" json:"id"`
	CourseID  string         `gorm:"type:varchar(36);not null;index" json:"course_id"`
	Title     string         `gorm:"not null" json:"title"`
	DueAt     *time.Time     `json:"due_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
