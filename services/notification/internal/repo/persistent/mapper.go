package persistent

import (
	"code-campus/services/notification/internal/entity"
	"code-campus/services/notification/internal/model"
)

func ToNotificationModel(n *entity.Notification) *model.NotificationModel {
	return &model.NotificationModel{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		SenderID:    n.SenderID,
		RecipientID: n.RecipientID,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		Priority:    n.Priority,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	return &entity.Notification{
		ID:          m.ID,
		Type:        m.Type,
		Title:       m.Title,
		Message:     m.Message,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		RelatedType: m.RelatedType,
		RelatedID:   m.RelatedID,
		Priority:    m.Priority,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func ToNotificationEntities(ms []model.NotificationModel) []entity.Notification {
	notifications := make([]entity.Notification, len(ms))
	for i := range ms {
		notifications[i] = *ToNotificationEntity(&ms[i])
	}
	return notifications
}

func ToCourseEntity(m *model.CourseModel) *entity.Course {
	if m == nil {
		return nil
	}
	return &entity.Course{
		ID:        m.ID,
		Name:      m.Name,
		TeacherID: m.TeacherID,
	}
}
