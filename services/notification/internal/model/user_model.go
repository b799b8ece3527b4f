package model

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	ID        string `gorm:"type:varchar(36);primary_key"`
	Email     string `gorm:"uniqueIndex;not null"`
	Username  string `gorm:"uniqueIndex;not null"`
	Role      string `gorm:"type:varchar(20)"`
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}
