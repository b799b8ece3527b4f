package entity

import "time"

// Closed set of notification types. The type drives the message template on
// insert and icon/routing behavior on the client.
const (
	TypeUserRegistration     = "user_registration"
	TypeCourseAssignment     = "course_assignment"
	TypeAssignmentSubmission = "assignment_submission"
	TypeGradeAssigned        = "grade_assigned"
	TypeCourseEnrollment     = "course_enrollment"
	TypeSystemAnnouncement   = "system_announcement"
)

const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification represents one message delivered to exactly one recipient.
type Notification struct {
	ID          uint64     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	SenderID    *string    `json:"sender_id,omitempty"`
	RecipientID string     `json:"recipient_id"`
	RelatedType string     `json:"related_type,omitempty"`
	RelatedID   string     `json:"related_id,omitempty"`
	Priority    string     `json:"priority"`
	IsRead      bool       `json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Course is the slice of course data the producer needs for templating and
// teacher-side fan-out.
type Course struct {
	ID        string
	Name      string
	TeacherID string
}
