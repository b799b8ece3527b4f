package persistent

import (
	"errors"
	"time"

	"code-campus/services/notification/internal/entity"
	"code-campus/services/notification/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Insert(n *entity.Notification) error
	ListByRecipient(recipientID string, limit int) ([]entity.Notification, error)
	ListAll(limit int) ([]entity.Notification, error)
	MarkRead(id uint64, recipientID string) error
	MarkAllRead(recipientID string) (int64, error)
	ClearAll(recipientID string) (int64, error)
	CountUnread(recipientID string) (int64, error)
	GetUserName(userID string) (string, error)
	GetCourse(courseID string) (*entity.Course, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const defaultListLimit = 50

// Insert persists a new notification. ID, CreatedAt and ReadAt are
// server-assigned; caller-supplied values for them are ignored.
func (r *notificationRepository) Insert(n *entity.Notification) error {
	if n.RecipientID == "" {
		return entity.NewValidationError("recipient_id", "is required")
	}
	if n.Type == "" {
		return entity.NewValidationError("type", "is required")
	}
	if n.Priority == "" {
		n.Priority = entity.PriorityNormal
	}

	m := ToNotificationModel(n)
	m.ID = 0
	m.IsRead = false
	m.ReadAt = nil
	m.CreatedAt = time.Time{}

	if err := r.db.Create(m).Error; err != nil {
		return &entity.StorageError{Op: "insert notification", Err: err}
	}

	*n = *ToNotificationEntity(m)
	return nil
}

func (r *notificationRepository) ListByRecipient(recipientID string, limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var ms []model.NotificationModel
	err := r.db.
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "list notifications", Err: err}
	}
	return ToNotificationEntities(ms), nil
}

func (r *notificationRepository) ListAll(limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var ms []model.NotificationModel
	err := r.db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, &entity.StorageError{Op: "list notifications", Err: err}
	}
	return ToNotificationEntities(ms), nil
}

// MarkRead flips one notification to read. With a non-empty recipientID the
// row must belong to that recipient; a row owned by someone else reports
// entity.ErrNotFound, same as a missing id. Re-marking an already-read row is
// a no-op and does not advance read_at.
func (r *notificationRepository) MarkRead(id uint64, recipientID string) error {
	q := r.db.Where("id = ?", id)
	if recipientID != "" {
		q = q.Where("recipient_id = ?", recipientID)
	}

	var m model.NotificationModel
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrNotFound
		}
		return &entity.StorageError{Op: "mark read", Err: err}
	}

	if m.IsRead {
		return nil
	}

	now := time.Now().UTC()
	err := r.db.Model(&model.NotificationModel{}).
		Where("id = ? AND is_read = ?", m.ID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
	if err != nil {
		return &entity.StorageError{Op: "mark read", Err: err}
	}
	return nil
}

// MarkAllRead flips every unread row for the recipient (all recipients when
// recipientID is empty) and returns the number of rows actually flipped.
func (r *notificationRepository) MarkAllRead(recipientID string) (int64, error) {
	now := time.Now().UTC()
	q := r.db.Model(&model.NotificationModel{}).Where("is_read = ?", false)
	if recipientID != "" {
		q = q.Where("recipient_id = ?", recipientID)
	}

	result := q.Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return 0, &entity.StorageError{Op: "mark all read", Err: result.Error}
	}
	return result.RowsAffected, nil
}

// ClearAll deletes every row for the recipient (all rows when recipientID is
// empty) and returns the number deleted.
func (r *notificationRepository) ClearAll(recipientID string) (int64, error) {
	q := r.db
	if recipientID != "" {
		q = q.Where("recipient_id = ?", recipientID)
	} else {
		q = q.Where("1 = 1")
	}

	result := q.Delete(&model.NotificationModel{})
	if result.Error != nil {
		return 0, &entity.StorageError{Op: "clear all", Err: result.Error}
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) CountUnread(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, &entity.StorageError{Op: "count unread", Err: err}
	}
	return count, nil
}

func (r *notificationRepository) GetUserName(userID string) (string, error) {
	var m model.UserModel
	err := r.db.Where("id = ?", userID).Select("username").First(&m).Error
	if err != nil {
		return "", err
	}
	return m.Username, nil
}

func (r *notificationRepository) GetCourse(courseID string) (*entity.Course, error) {
	var m model.CourseModel
	err := r.db.Where("id = ?", courseID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return ToCourseEntity(&m), nil
}
