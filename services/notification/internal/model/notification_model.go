package model

import (
	"time"
)

type NotificationModel struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Type        string  `gorm:"type:varchar(50);not null"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Message     string  `gorm:"type:text"`
	SenderID    *string `gorm:"type:varchar(36)"`
	RecipientID string  `gorm:"type:varchar(36);not null;index:idx_notifications_recipient,priority:1"`
	RelatedType string  `gorm:"type:varchar(50)"`
	RelatedID   string  `gorm:"type:varchar(36)"`
	Priority    string  `gorm:"type:varchar(10);default:'normal'"`
	IsRead      bool    `gorm:"default:false"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"index:idx_notifications_recipient,priority:2"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
