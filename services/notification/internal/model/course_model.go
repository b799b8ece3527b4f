package model

import (
	"time"

	"gorm.io/gorm"
)

type CourseModel struct {
	ID        string `gorm:"type:varchar(36);primary_key"`
	TeacherID string `gorm:"type:varchar(36);not null;index"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CourseModel) TableName() string {
	return "courses"
}
