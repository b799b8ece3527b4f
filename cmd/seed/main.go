package main

import (
	"fmt"

	"code-campus/pkg/config"
	"code-campus/pkg/database"
	"code-campus/pkg/logger"
	"code-campus/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	defer log.Sync()

	db, err := database.NewMySQLDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		email    string
		username string
		password string
		role     models.UserRole
	}{
		{"ada@test.com", "ada", "password123", models.RoleTeacher},
		{"grace@test.com", "grace", "password123", models.RoleTeacher},
		{"alice@test.com", "alice", "password123", models.RoleStudent},
		{"bob@test.com", "bob", "password123", models.RoleStudent},
		{"root@test.com", "root", "password123", models.RoleAdmin},
	}

	usersByName := make(map[string]*models.User, len(testUsers))

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     userData.role,
			IsActive: true,
		}

		var existingUser models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			usersByName[existingUser.Username] = &existingUser
			continue
		}

		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", user.Username, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.Username, user.Email)
		usersByName[user.Username] = user
	}

	testCourses := []struct {
		name    string
		teacher string
	}{
		{"Web Development Basics", "ada"},
		{"Data Structures in Go", "grace"},
	}

	coursesByName := make(map[string]*models.Course, len(testCourses))

	for _, courseData := range testCourses {
		teacher, ok := usersByName[courseData.teacher]
		if !ok {
			continue
		}

		var existingCourse models.Course
		result := db.Where("name = ?", courseData.name).First(&existingCourse)
		if result.Error == nil {
			log.Info("Course %q already exists, skipping", courseData.name)
			coursesByName[existingCourse.Name] = &existingCourse
			continue
		}

		course := &models.Course{
			TeacherID: teacher.ID,
			Name:      courseData.name,
		}
		if err := db.Create(course).Error; err != nil {
			log.Error("Failed to create course %q: %v", courseData.name, err)
			continue
		}

		log.Info("Created course: %q", course.Name)
		coursesByName[course.Name] = course
	}

	for _, studentName := range []string{"alice", "bob"} {
		student, ok := usersByName[studentName]
		if !ok {
			continue
		}
		course, ok := coursesByName["Web Development Basics"]
		if !ok {
			continue
		}

		var existing models.Enrollment
		result := db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&existing)
		if result.Error == nil {
			continue
		}

		enrollment := &models.Enrollment{
			StudentID: student.ID,
			CourseID:  course.ID,
		}
		if err := db.Create(enrollment).Error; err != nil {
			log.Error("Failed to enroll %s: %v", studentName, err)
			continue
		}
		log.Info("Enrolled %s in %q", studentName, course.Name)
	}

	return nil
}
