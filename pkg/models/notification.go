package models

import (
	"time"
)

type NotificationType string

const (
	NotificationUserRegistration     NotificationType = "user_registration"
	NotificationCourseAssignment     NotificationType = "course_assignment"
	NotificationAssignmentSubmission NotificationType = "assignment_submission"
	NotificationGradeAssigned        NotificationType = "grade_assigned"
	NotificationCourseEnrollment     NotificationType = "course_enrollment"
	NotificationSystemAnnouncement   NotificationType = "system_announcement"
)

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Notification is one message addressed to exactly one recipient. Fan-out to N
// recipients is N rows. The message text is rendered once at insert time and
// stored; historical rows are never re-rendered when templates change.
type Notification struct {
	ID          uint64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Type        NotificationType     `gorm:"type:varchar(50);not null" json:"type"`
	Title       string               `gorm:"type:varchar(255);not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	SenderID    *string              `gorm:"type:varchar(36)" json:"sender_id,omitempty"`
	RecipientID string               `gorm:"type:varchar(36);not null;index:idx_notifications_recipient,priority:1" json:"recipient_id"`
	RelatedType string               `gorm:"type:varchar(50)" json:"related_type,omitempty"`
	RelatedID   string               `gorm:"type:varchar(36)" json:"related_id,omitempty"`
	Priority    NotificationPriority `gorm:"type:varchar(10);default:'normal'" json:"priority"`
	IsRead      bool                 `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
	CreatedAt   time.Time            `gorm:"index:idx_notifications_recipient,priority:2" json:"created_at"`
}
