package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
		Role:     RoleStudent,
		IsActive: true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestCourse_BeforeCreate(t *testing.T) {
	course := &Course{
		TeacherID: "teacher-123",
		Name:      "Intro to Go",
	}

	err := course.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, course.ID)
}

func TestEnrollment_BeforeCreate(t *testing.T) {
	enrollment := &Enrollment{
		StudentID: "student-123",
		CourseID:  "course-123",
	}

	err := enrollment.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
}

func TestAssignment_BeforeCreate(t *testing.T) {
	assignment := &Assignment{
		CourseID: "course-123",
		Title:    "Homework 1",
	}

	err := assignment.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, assignment.ID)
}

func TestUserRole_Constants(t *testing.T) {
	assert.Equal(t, UserRole("student"), RoleStudent)
	assert.Equal(t, UserRole("teacher"), RoleTeacher)
	assert.Equal(t, UserRole("admin"), RoleAdmin)
}

func TestNotificationType_Constants(t *testing.T) {
	assert.Equal(t, NotificationType("user_registration"), NotificationUserRegistration)
	assert.Equal(t, NotificationType("course_assignment"), NotificationCourseAssignment)
	assert.Equal(t, NotificationType("assignment_submission"), NotificationAssignmentSubmission)
	assert.Equal(t, NotificationType("grade_assigned"), NotificationGradeAssigned)
	assert.Equal(t, NotificationType("course_enrollment"), NotificationCourseEnrollment)
	assert.Equal(t, NotificationType("system_announcement"), NotificationSystemAnnouncement)
}

func TestNotificationPriority_Constants(t *testing.T) {
	assert.Equal(t, NotificationPriority("normal"), PriorityNormal)
	assert.Equal(t, NotificationPriority("high"), PriorityHigh)
	assert.Equal(t, NotificationPriority("urgent"), PriorityUrgent)
}

func TestNotification_Defaults(t *testing.T) {
	n := Notification{
		Type:        NotificationCourseEnrollment,
		Title:       "Enrolled",
		RecipientID: "user-1",
	}

	assert.False(t, n.IsRead)
	assert.Nil(t, n.ReadAt)
	assert.Nil(t, n.SenderID)
}
