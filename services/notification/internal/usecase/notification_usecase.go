package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"code-campus/pkg/logger"
	"code-campus/services/notification/internal/entity"
	"code-campus/services/notification/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

// ProduceInput is one notification to synthesize. Title and Message override
// the per-type template when set; otherwise they are rendered from Data.
type ProduceInput struct {
	Type        string
	RecipientID string
	SenderID    *string
	RelatedType string
	RelatedID   string
	Priority    string
	Title       string
	Message     string
	Data        map[string]string
}

type NotificationUseCase interface {
	Produce(in ProduceInput) (*entity.Notification, error)
	Broadcast(recipientIDs []string, in ProduceInput) (int, error)
	ListForRecipient(recipientID string, limit int) ([]entity.Notification, int64, error)
	ListAll(limit int) ([]entity.Notification, error)
	MarkRead(id uint64, recipientID string) error
	MarkAllRead(recipientID string) (int64, error)
	ClearAll(recipientID string) (int64, error)
	HandleRegistrationEvent(event map[string]interface{}) error
	HandleEnrollmentEvent(event map[string]interface{}) error
	HandleSubmissionEvent(event map[string]interface{}) error
	HandleGradeEvent(event map[string]interface{}) error
	HandleAnnouncementEvent(event map[string]interface{}) error
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	redisClient      *redis.Client
	logger           *logger.Logger
}

func NewNotificationUseCase(notificationRepo persistent.NotificationRepository, redisClient *redis.Client, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
		logger:           logger,
	}
}

const unreadCountTTL = 5 * time.Minute

func unreadCountKey(recipientID string) string {
	return fmt.Sprintf("notifications:unread:%s", recipientID)
}

// Produce renders the message for in.Type and inserts one notification row.
// Producing the same logical event twice creates two rows; deduplication is
// deliberately not attempted (at-least-once, matching the delivery model).
func (uc *notificationUseCase) Produce(in ProduceInput) (*entity.Notification, error) {
	title, message := renderTemplate(in.Type, in.Data)
	if in.Title != "" {
		title = in.Title
	}
	if in.Message != "" {
		message = in.Message
	}

	notification := &entity.Notification{
		Type:        in.Type,
		Title:       title,
		Message:     message,
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		RelatedType: in.RelatedType,
		RelatedID:   in.RelatedID,
		Priority:    in.Priority,
	}

	if err := uc.notificationRepo.Insert(notification); err != nil {
		return nil, err
	}

	uc.invalidateUnreadCount(in.RecipientID)
	uc.logger.Info("Notification %d (%s) delivered to recipient %s", notification.ID, notification.Type, notification.RecipientID)
	return notification, nil
}

// Broadcast produces one row per recipient. Failures are counted out and
// logged per recipient; one bad insert never aborts the rest.
func (uc *notificationUseCase) Broadcast(recipientIDs []string, in ProduceInput) (int, error) {
	sentCount := 0
	for _, recipientID := range recipientIDs {
		perRecipient := in
		perRecipient.RecipientID = recipientID
		if _, err := uc.Produce(perRecipient); err != nil {
			uc.logger.Error("Failed to notify recipient %s: %v", recipientID, err)
			continue
		}
		sentCount++
	}

	uc.logger.Info("Broadcast %s notification delivered to %d/%d recipients", in.Type, sentCount, len(recipientIDs))
	return sentCount, nil
}

func (uc *notificationUseCase) ListForRecipient(recipientID string, limit int) ([]entity.Notification, int64, error) {
	notifications, err := uc.notificationRepo.ListByRecipient(recipientID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := uc.unreadCount(recipientID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (uc *notificationUseCase) ListAll(limit int) ([]entity.Notification, error) {
	return uc.notificationRepo.ListAll(limit)
}

func (uc *notificationUseCase) MarkRead(id uint64, recipientID string) error {
	if err := uc.notificationRepo.MarkRead(id, recipientID); err != nil {
		return err
	}
	uc.invalidateUnreadCount(recipientID)
	return nil
}

func (uc *notificationUseCase) MarkAllRead(recipientID string) (int64, error) {
	count, err := uc.notificationRepo.MarkAllRead(recipientID)
	if err != nil {
		return 0, err
	}
	uc.invalidateUnreadCount(recipientID)
	return count, nil
}

func (uc *notificationUseCase) ClearAll(recipientID string) (int64, error) {
	count, err := uc.notificationRepo.ClearAll(recipientID)
	if err != nil {
		return 0, err
	}
	uc.invalidateUnreadCount(recipientID)
	return count, nil
}

// HandleRegistrationEvent welcomes a freshly registered user.
func (uc *notificationUseCase) HandleRegistrationEvent(event map[string]interface{}) error {
	userID, _ := event["user_id"].(string)
	username, _ := event["username"].(string)

	if userID == "" {
		return fmt.Errorf("invalid user_registration event: missing user_id")
	}

	_, err := uc.Produce(ProduceInput{
		Type:        entity.TypeUserRegistration,
		RecipientID: userID,
		RelatedType: "user",
		RelatedID:   userID,
		Data:        map[string]string{"username": username},
	})
	return err
}

// HandleEnrollmentEvent fans an enrollment out to the student and the
// course's teacher: two independent rows with recipient-appropriate wording.
// A failed insert for one recipient is logged and does not block the other,
// and the event is not redelivered for it (delivery is best-effort).
func (uc *notificationUseCase) HandleEnrollmentEvent(event map[string]interface{}) error {
	studentID, _ := event["student_id"].(string)
	courseID, _ := event["course_id"].(string)

	if studentID == "" || courseID == "" {
		return fmt.Errorf("invalid course_enrollment event: missing student_id or course_id")
	}

	studentName, err := uc.notificationRepo.GetUserName(studentID)
	if err != nil {
		uc.logger.Warn("Failed to resolve student %s: %v", studentID, err)
		studentName = "A student"
	}

	course, err := uc.notificationRepo.GetCourse(courseID)
	if err != nil {
		return fmt.Errorf("failed to resolve course %s: %w", courseID, err)
	}

	data := map[string]string{
		"studentName": studentName,
		"courseName":  course.Name,
	}

	if _, err := uc.Produce(ProduceInput{
		Type:        entity.TypeCourseEnrollment,
		RecipientID: studentID,
		RelatedType: "course",
		RelatedID:   course.ID,
		Data:        data,
	}); err != nil {
		uc.logger.Error("Failed to notify student %s about enrollment: %v", studentID, err)
	}

	if course.TeacherID != "" {
		title, message := teacherEnrollmentTemplate.title, substitute(teacherEnrollmentTemplate.message, data)
		if _, err := uc.Produce(ProduceInput{
			Type:        entity.TypeCourseEnrollment,
			RecipientID: course.TeacherID,
			SenderID:    &studentID,
			RelatedType: "course",
			RelatedID:   course.ID,
			Title:       title,
			Message:     message,
		}); err != nil {
			uc.logger.Error("Failed to notify teacher %s about enrollment: %v", course.TeacherID, err)
		}
	}

	return nil
}

// HandleSubmissionEvent notifies the course's teacher about a new submission.
func (uc *notificationUseCase) HandleSubmissionEvent(event map[string]interface{}) error {
	studentID, _ := event["student_id"].(string)
	courseID, _ := event["course_id"].(string)
	assignmentID, _ := event["assignment_id"].(string)
	assignmentTitle, _ := event["assignment_title"].(string)

	if studentID == "" || courseID == "" || assignmentID == "" {
		return fmt.Errorf("invalid assignment_submission event: missing required fields")
	}

	studentName, err := uc.notificationRepo.GetUserName(studentID)
	if err != nil {
		studentName = "A student"
	}

	course, err := uc.notificationRepo.GetCourse(courseID)
	if err != nil {
		return fmt.Errorf("failed to resolve course %s: %w", courseID, err)
	}

	_, err = uc.Produce(ProduceInput{
		Type:        entity.TypeAssignmentSubmission,
		RecipientID: course.TeacherID,
		SenderID:    &studentID,
		RelatedType: "assignment",
		RelatedID:   assignmentID,
		Data: map[string]string{
			"studentName":     studentName,
			"assignmentTitle": assignmentTitle,
			"courseName":      course.Name,
		},
	})
	return err
}

// HandleGradeEvent notifies the student about their grade, high priority.
func (uc *notificationUseCase) HandleGradeEvent(event map[string]interface{}) error {
	studentID, _ := event["student_id"].(string)
	courseID, _ := event["course_id"].(string)
	assignmentID, _ := event["assignment_id"].(string)
	assignmentTitle, _ := event["assignment_title"].(string)
	teacherID, _ := event["teacher_id"].(string)
	grade := toGradeString(event["grade"])

	if studentID == "" || assignmentID == "" {
		return fmt.Errorf("invalid grade_assigned event: missing student_id or assignment_id")
	}

	courseName := ""
	if courseID != "" {
		if course, err := uc.notificationRepo.GetCourse(courseID); err == nil {
			courseName = course.Name
		}
	}

	var sender *string
	if teacherID != "" {
		sender = &teacherID
	}

	_, err := uc.Produce(ProduceInput{
		Type:        entity.TypeGradeAssigned,
		RecipientID: studentID,
		SenderID:    sender,
		RelatedType: "assignment",
		RelatedID:   assignmentID,
		Priority:    entity.PriorityHigh,
		Data: map[string]string{
			"assignmentTitle": assignmentTitle,
			"courseName":      courseName,
			"grade":           grade,
		},
	})
	return err
}

// HandleAnnouncementEvent broadcasts an announcement to an explicit recipient
// list, one row each.
func (uc *notificationUseCase) HandleAnnouncementEvent(event map[string]interface{}) error {
	message, _ := event["message"].(string)
	rawRecipients, _ := event["recipient_ids"].([]interface{})

	if message == "" || len(rawRecipients) == 0 {
		return fmt.Errorf("invalid system_announcement event: missing message or recipient_ids")
	}

	recipientIDs := make([]string, 0, len(rawRecipients))
	for _, raw := range rawRecipients {
		if id, ok := raw.(string); ok && id != "" {
			recipientIDs = append(recipientIDs, id)
		}
	}

	priority, _ := event["priority"].(string)

	_, err := uc.Broadcast(recipientIDs, ProduceInput{
		Type:     entity.TypeSystemAnnouncement,
		Priority: priority,
		Data:     map[string]string{"announcement": message},
	})
	return err
}

// unreadCount serves from redis when possible, falling back to the store. A
// cache miss or unavailable redis never fails the request.
func (uc *notificationUseCase) unreadCount(recipientID string) (int64, error) {
	if uc.redisClient != nil {
		ctx := context.Background()
		if cached, err := uc.redisClient.Get(ctx, unreadCountKey(recipientID)).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := uc.notificationRepo.CountUnread(recipientID)
	if err != nil {
		return 0, err
	}

	if uc.redisClient != nil {
		ctx := context.Background()
		if err := uc.redisClient.Set(ctx, unreadCountKey(recipientID), count, unreadCountTTL).Err(); err != nil {
			uc.logger.Warn("Failed to cache unread count for %s: %v", recipientID, err)
		}
	}
	return count, nil
}

func (uc *notificationUseCase) invalidateUnreadCount(recipientID string) {
	if uc.redisClient == nil {
		return
	}
	ctx := context.Background()
	if recipientID == "" {
		// Global mutation; drop every cached count rather than guessing.
		iter := uc.redisClient.Scan(ctx, 0, unreadCountKey("*"), 100).Iterator()
		for iter.Next(ctx) {
			uc.redisClient.Del(ctx, iter.Val())
		}
		return
	}
	if err := uc.redisClient.Del(ctx, unreadCountKey(recipientID)).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate unread count for %s: %v", recipientID, err)
	}
}

func toGradeString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
