package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/edusync-service/internal/cache"
	"github.com/SAP-F-2025/edusync-service/internal/cascade"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/repositories"
	"github.com/SAP-F-2025/edusync-service/internal/testutil"
)

// deleteInTx plans and executes the removal of one entity in a single transaction
func deleteInTx(ctx context.Context, repo repositories.Repository, kind cascade.Kind, id uuid.UUID) error {
	var plan *cascade.Plan
	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		plan, err = cascade.NewPlanner(txRepo.Cascade().Graph(nil)).PlanDeletion(ctx, kind, id)
		if err != nil {
			return err
		}
		return txRepo.Cascade().Execute(ctx, nil, plan)
	})
	if err != nil {
		return err
	}
	repo.Cascade().Invalidate(ctx, plan)
	return nil
}

func TestCascade_DeleteCourseRemovesDependents(t *testing.T) {
	db, repo := setupRepository(t)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	sam := testutil.CreateUser(t, db, "sam", models.RoleStudent)
	course := testutil.CreateCourse(t, db, ian, "Go")
	other := testutil.CreateCourse(t, db, ian, "Rust")
	quiz := testutil.CreateAssessment(t, db, course, "Quiz", 10)
	exam := testutil.CreateAssessment(t, db, course, "Exam", 100)
	keep := testutil.CreateAssessment(t, db, other, "Keep", 10)
	testutil.CreateResult(t, db, quiz, sam, 5)
	testutil.CreateResult(t, db, exam, sam, 70)
	testutil.CreateResult(t, db, keep, sam, 9)
	testutil.Enroll(t, db, course, sam)

	if err := deleteInTx(ctx, repo, cascade.KindCourse, course.ID); err != nil {
		t.Fatalf("Cascade delete failed: %v", err)
	}

	if n := testutil.Count(t, db, &models.Course{}, "id = ?", course.ID); n != 0 {
		t.Errorf("Course should be gone, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Assessment{}, "course_id = ?", course.ID); n != 0 {
		t.Errorf("Expected no assessments left for course, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Result{}, "assessment_id IN ?", []uuid.UUID{quiz.ID, exam.ID}); n != 0 {
		t.Errorf("Expected no results left for course, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Enrollment{}, "course_id = ?", course.ID); n != 0 {
		t.Errorf("Expected enrollments to cascade, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Result{}, ""); n != 1 {
		t.Errorf("Results of other courses must survive, found %d", n)
	}
}

func TestCascade_FailureRollsBackEveryStep(t *testing.T) {
	db, repo := setupRepository(t)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	sam := testutil.CreateUser(t, db, "sam", models.RoleStudent)
	course := testutil.CreateCourse(t, db, ian, "Go")
	quiz := testutil.CreateAssessment(t, db, course, "Quiz", 10)
	testutil.CreateResult(t, db, quiz, sam, 5)

	simulated := errors.New("simulated failure")
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_courses", func(d *gorm.DB) {
		if d.Statement.Table == "courses" {
			d.AddError(simulated)
		}
	})
	if err != nil {
		t.Fatalf("Failed to register callback: %v", err)
	}

	if err := deleteInTx(ctx, repo, cascade.KindCourse, course.ID); !errors.Is(err, simulated) {
		t.Fatalf("Expected simulated failure, got %v", err)
	}

	if n := testutil.Count(t, db, &models.Result{}, ""); n != 1 {
		t.Errorf("Result delete should be rolled back, found %d results", n)
	}
	if n := testutil.Count(t, db, &models.Assessment{}, ""); n != 1 {
		t.Errorf("Assessment delete should be rolled back, found %d assessments", n)
	}
	if n := testutil.Count(t, db, &models.Course{}, ""); n != 1 {
		t.Errorf("Course should remain, found %d courses", n)
	}
}

func TestCascade_DeleteStudentRemovesOnlyOwnResults(t *testing.T) {
	db, repo := setupRepository(t)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	sam := testutil.CreateUser(t, db, "sam", models.RoleStudent)
	sue := testutil.CreateUser(t, db, "sue", models.RoleStudent)
	course := testutil.CreateCourse(t, db, ian, "Go")
	quiz := testutil.CreateAssessment(t, db, course, "Quiz", 10)
	for i := 0; i < 3; i++ {
		testutil.CreateResult(t, db, quiz, sam, i)
	}
	testutil.CreateResult(t, db, quiz, sue, 7)
	testutil.CreateResult(t, db, quiz, sue, 8)
	testutil.Enroll(t, db, course, sam)

	if err := deleteInTx(ctx, repo, cascade.KindUser, sam.ID); err != nil {
		t.Fatalf("Cascade delete failed: %v", err)
	}

	if n := testutil.Count(t, db, &models.Result{}, "user_id = ?", sam.ID); n != 0 {
		t.Errorf("Expected sam's results to be gone, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Result{}, ""); n != 2 {
		t.Errorf("Expected exactly sue's 2 results to remain, found %d", n)
	}
	if n := testutil.Count(t, db, &models.User{}, "id = ?", sam.ID); n != 0 {
		t.Error("Student should be deleted")
	}
	if n := testutil.Count(t, db, &models.Course{}, ""); n != 1 {
		t.Error("Courses must not be touched when deleting a student")
	}
}

func TestCascade_DeleteInstructorRemovesTaughtCourses(t *testing.T) {
	db, repo := setupRepository(t)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	ivy := testutil.CreateUser(t, db, "ivy", models.RoleInstructor)
	sam := testutil.CreateUser(t, db, "sam", models.RoleStudent)
	mine := testutil.CreateCourse(t, db, ian, "Go")
	theirs := testutil.CreateCourse(t, db, ivy, "Rust")
	testutil.CreateResult(t, db, testutil.CreateAssessment(t, db, mine, "Go quiz", 10), sam, 5)
	testutil.CreateResult(t, db, testutil.CreateAssessment(t, db, theirs, "Rust quiz", 10), sam, 6)

	if err := deleteInTx(ctx, repo, cascade.KindUser, ian.ID); err != nil {
		t.Fatalf("Cascade delete failed: %v", err)
	}

	if n := testutil.Count(t, db, &models.Course{}, ""); n != 1 {
		t.Errorf("Expected only ivy's course to remain, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Assessment{}, ""); n != 1 {
		t.Errorf("Expected one assessment to remain, found %d", n)
	}
	if n := testutil.Count(t, db, &models.Result{}, ""); n != 1 {
		t.Errorf("Expected one result to remain, found %d", n)
	}
}

func TestCascade_ExecuteDetectsWriteConflict(t *testing.T) {
	db, repo := setupRepository(t)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	sam := testutil.CreateUser(t, db, "sam", models.RoleStudent)
	quiz := testutil.CreateAssessment(t, db, testutil.CreateCourse(t, db, ian, "Go"), "Quiz", 10)
	result := testutil.CreateResult(t, db, quiz, sam, 5)

	plan := &cascade.Plan{
		Root: cascade.Target{Kind: cascade.KindAssessment, ID: quiz.ID},
		Targets: []cascade.Target{
			{Kind: cascade.KindResult, ID: result.ID},
			{Kind: cascade.KindResult, ID: uuid.New()},
			{Kind: cascade.KindAssessment, ID: quiz.ID},
		},
	}

	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Cascade().Execute(ctx, nil, plan)
	})
	if !errors.Is(err, repositories.ErrWriteConflict) {
		t.Fatalf("Expected ErrWriteConflict, got %v", err)
	}
	if n := testutil.Count(t, db, &models.Result{}, "id = ?", result.ID); n != 1 {
		t.Error("Partial delete should be rolled back")
	}
}

func TestCascade_CacheIsClearedAfterCommit(t *testing.T) {
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: db, RedisClient: client})
	cm := cache.NewCacheManager(client)
	ctx := context.Background()

	ian := testutil.CreateUser(t, db, "ian", models.RoleInstructor)
	course := testutil.CreateCourse(t, db, ian, "Go")
	key := "course:" + cache.IDKey(course.ID)

	var plan *cascade.Plan
	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		plan, err = cascade.NewPlanner(txRepo.Cascade().Graph(nil)).PlanDeletion(ctx, cascade.KindCourse, course.ID)
		if err != nil {
			return err
		}
		if err := txRepo.Cascade().Execute(ctx, nil, plan); err != nil {
			return err
		}
		// A reader outside the transaction still sees the row and caches it
		return cm.Course.Set(ctx, cache.IDKey(course.ID), course, time.Minute)
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !mr.Exists(key) {
		t.Fatal("Expected the course cached during the transaction to still be present")
	}

	repo.Cascade().Invalidate(ctx, plan)

	if mr.Exists(key) {
		t.Error("Invalidate should drop the deleted course from the cache")
	}
	if _, err := repo.Course().GetByID(ctx, nil, course.ID); !repositories.IsNotFoundError(err) {
		t.Errorf("Expected deleted course to be gone, got %v", err)
	}
}
