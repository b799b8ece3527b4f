package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enrollment struct {
	ID        string         `gorm:"type:varchar(36);primary_key" json:"id"`
	StudentID string         `gorm:"type:varchar(36);not null;index:idx_enrollments_student_course" json:"student_id"`
	CourseID  string         `gorm:"type:varchar(36);not null;index:idx_enrollments_student_course" json:"course_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
