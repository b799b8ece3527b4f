package usecase

import (
	"testing"

	"code-campus/pkg/jwt"
	"code-campus/pkg/logger"
	"code-campus/services/auth/internal/entity"
	"code-campus/services/auth/internal/model"
	"code-campus/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAuthUseCase(t *testing.T) (AuthUseCase, *jwt.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserModel{}))

	jwtService := jwt.NewService("test-secret")
	repo := persistent.NewUserRepository(db)
	return NewAuthUseCase(repo, jwtService, nil, logger.New()), jwtService
}

func TestRegister(t *testing.T) {
	uc, jwtService := newAuthUseCase(t)

	user, token, err := uc.Register("zs@test.com", "张三", "secret123", "")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, entity.RoleStudent, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Password)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "student", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newAuthUseCase(t)

	_, _, err := uc.Register("a@test.com", "alice", "secret123", "")
	require.NoError(t, err)

	_, _, err = uc.Register("a@test.com", "alice2", "secret123", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already exists")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	uc, _ := newAuthUseCase(t)

	_, _, err := uc.Register("a@test.com", "alice", "secret123", "")
	require.NoError(t, err)

	_, _, err = uc.Register("b@test.com", "alice", "secret123", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestRegister_InvalidRole(t *testing.T) {
	uc, _ := newAuthUseCase(t)

	_, _, err := uc.Register("a@test.com", "alice", "secret123", "superuser")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, _, err := uc.Register("a@test.com", "alice", "secret123", "teacher")
	require.NoError(t, err)

	user, token, err := uc.Login("a@test.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, entity.RoleTeacher, user.Role)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.Password)
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	_, _, err := uc.Register("a@test.com", "alice", "secret123", "")
	require.NoError(t, err)

	_, _, err = uc.Login("a@test.com", "wrong")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc, _ := newAuthUseCase(t)

	_, _, err := uc.Login("nobody@test.com", "secret123")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestGetUser(t *testing.T) {
	uc, _ := newAuthUseCase(t)
	registered, _, err := uc.Register("a@test.com", "alice", "secret123", "")
	require.NoError(t, err)

	user, err := uc.GetUser(registered.ID)

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Password)
}
