package persistent

import (
	"code-campus/services/auth/internal/entity"
	"code-campus/services/auth/internal/model"
)

func ToUserModel(u *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Password: u.Password,
		Role:     string(u.Role),
		IsActive: u.IsActive,
	}
}

func ToUserEntity(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		Role:      entity.Role(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
