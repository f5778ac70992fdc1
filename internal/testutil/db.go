// Package testutil provides an isolated database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/pkg"
)

// NewTestDB opens a private in-memory SQLite database with foreign keys enforced
// and the production schema migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Role:         role,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func CreateCourse(t testing.TB, db *gorm.DB, instructor *models.User, title string) *models.Course {
	t.Helper()
	course := &models.Course{Title: title, InstructorID: instructor.ID}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}
	return course
}

func CreateAssessment(t testing.TB, db *gorm.DB, course *models.Course, title string, maxScore int) *models.Assessment {
	t.Helper()
	assessment := &models.Assessment{
		Title:     title,
		Questions: `[{"q":"2+2","a":"4"}]`,
		MaxScore:  maxScore,
		CourseID:  course.ID,
	}
	if err := db.Create(assessment).Error; err != nil {
		t.Fatalf("Failed to create assessment: %v", err)
	}
	return assessment
}

func CreateResult(t testing.TB, db *gorm.DB, assessment *models.Assessment, user *models.User, score int) *models.Result {
	t.Helper()
	result := &models.Result{
		Score:        score,
		AttemptDate:  time.Now().UTC().Truncate(time.Second),
		AssessmentID: assessment.ID,
		UserID:       user.ID,
	}
	if err := db.Create(result).Error; err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}
	return result
}

func Enroll(t testing.TB, db *gorm.DB, course *models.Course, student *models.User) {
	t.Helper()
	if err := db.Create(&models.Enrollment{CourseID: course.ID, UserID: student.ID}).Error; err != nil {
		t.Fatalf("Failed to enroll student: %v", err)
	}
}

// Count returns the number of rows of model matching the optional condition
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
