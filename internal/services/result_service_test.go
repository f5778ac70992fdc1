package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/edusync-service/internal/events"
	"github.com/SAP-F-2025/edusync-service/internal/models"
	"github.com/SAP-F-2025/edusync-service/internal/testutil"
)

// Instructor A creates course C, student S enrolls, A adds assessment X and S submits a result.
func TestScenario_SubmitAndViewResult(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, env.db, "a", models.RoleInstructor)
	s := testutil.CreateUser(t, env.db, "s", models.RoleStudent)

	course, err := env.services.Course().Create(ctx, actorOf(a), &CreateCourseRequest{Title: "C"}, nil)
	if err != nil {
		t.Fatalf("Create course failed: %v", err)
	}
	courseID := uuid.MustParse(course.ID)

	if err := env.services.Enrollment().EnrollSelf(ctx, actorOf(s), &StudentEnrollmentRequest{CourseID: courseID}); err != nil {
		t.Fatalf("Enroll failed: %v", err)
	}

	x, err := env.services.Assessment().Create(ctx, actorOf(a), &CreateAssessmentRequest{
		Title: "X", Questions: "[]", MaxScore: 100, CourseID: courseID,
	})
	if err != nil {
		t.Fatalf("Create assessment failed: %v", err)
	}

	submitted, err := env.services.Result().Create(ctx, actorOf(s), &CreateResultRequest{
		Score:        80,
		AttemptDate:  time.Now(),
		AssessmentID: uuid.MustParse(x.ID),
		UserID:       s.ID,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	got, err := env.services.Result().GetByID(ctx, actorOf(s), uuid.MustParse(submitted.ID))
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Score != 80 || got.MaxScore != 100 || got.AssessmentTitle != "X" {
		t.Errorf("Unexpected result %+v", got)
	}
	if got.UserName != s.Name {
		t.Errorf("Expected user name %q, got %q", s.Name, got.UserName)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.ResultSubmitted {
		t.Fatalf("Expected one result.submitted event, got %v", published)
	}
	if topics := env.publisher.GetTopics(); topics[0] != testResultTopic {
		t.Errorf("Unexpected topic %s", topics[0])
	}
	data, ok := published[0].Data.(events.ResultSubmittedEvent)
	if !ok || data.ResultID != submitted.ID || data.MaxScore != 100 || data.Score != 80 {
		t.Errorf("Unexpected event payload %+v", published[0].Data)
	}
}

func TestResult_PublishFailureKeepsResult(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	teacher := testutil.CreateUser(t, env.db, "teacher", models.RoleInstructor)
	student := testutil.CreateUser(t, env.db, "student", models.RoleStudent)
	course := testutil.CreateCourse(t, env.db, teacher, "C")
	assessment := testutil.CreateAssessment(t, env.db, course, "X", 10)

	env.publisher.FailWith(errors.New("broker unavailable"))

	resp, err := env.services.Result().Create(ctx, actorOf(student), &CreateResultRequest{
		Score: 7, AttemptDate: time.Now(), AssessmentID: assessment.ID,
	})
	if err != nil {
		t.Fatalf("Submit should succeed despite publish failure, got %v", err)
	}
	if resp.UserID != student.ID.String() {
		t.Errorf("Expected omitted user id to default to the actor, got %s", resp.UserID)
	}

	if n := testutil.Count(t, env.db, &models.Result{}, ""); n != 1 {
		t.Errorf("Expected the result to stay committed, found %d", n)
	}

	failed, err := env.repo.FailedEvent().List(ctx, nil, 10)
	if err != nil {
		t.Fatalf("List failed events: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("Expected one failed event, got %d", len(failed))
	}
	if failed[0].Topic != testResultTopic || failed[0].EventType != events.ResultSubmitted || failed[0].Error != "broker unavailable" {
		t.Errorf("Unexpected failed event %+v", failed[0])
	}

	var envelope events.Event
	if err := json.Unmarshal(failed[0].Payload, &envelope); err != nil {
		t.Fatalf("Stored payload is not an event: %v", err)
	}
	if envelope.Type != events.ResultSubmitted {
		t.Errorf("Unexpected stored event type %s", envelope.Type)
	}
}

func TestResult_SubmitRules(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	teacher := testutil.CreateUser(t, env.db, "teacher", models.RoleInstructor)
	student := testutil.CreateUser(t, env.db, "student", models.RoleStudent)
	other := testutil.CreateUser(t, env.db, "other", models.RoleStudent)
	course := testutil.CreateCourse(t, env.db, teacher, "C")
	assessment := testutil.CreateAssessment(t, env.db, course, "X", 10)

	tests := []struct {
		name    string
		actor   *models.User
		req     CreateResultRequest
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown assessment",
			actor:   student,
			req:     CreateResultRequest{Score: 1, AttemptDate: time.Now(), AssessmentID: uuid.New(), UserID: student.ID},
			wantErr: ErrBadRequest,
			wantMsg: "Invalid Assessment ID",
		},
		{
			name:    "submitting for someone else",
			actor:   student,
			req:     CreateResultRequest{Score: 1, AttemptDate: time.Now(), AssessmentID: assessment.ID, UserID: other.ID},
			wantErr: ErrBadRequest,
			wantMsg: "Students can only submit their own results",
		},
		{
			name:    "instructors do not submit",
			actor:   teacher,
			req:     CreateResultRequest{Score: 1, AttemptDate: time.Now(), AssessmentID: assessment.ID, UserID: teacher.ID},
			wantErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.services.Result().Create(ctx, actorOf(tt.actor), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}

	if n := testutil.Count(t, env.db, &models.Result{}, ""); n != 0 {
		t.Errorf("Expected no results stored, found %d", n)
	}
	if len(env.publisher.GetPublishedEvents()) != 0 {
		t.Error("Rejected submissions must not publish events")
	}
}

func TestResult_StudentCanOnlyViewOwn(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	teacher := testutil.CreateUser(t, env.db, "teacher", models.RoleInstructor)
	alice := testutil.CreateUser(t, env.db, "alice", models.RoleStudent)
	bob := testutil.CreateUser(t, env.db, "bob", models.RoleStudent)
	course := testutil.CreateCourse(t, env.db, teacher, "C")
	assessment := testutil.CreateAssessment(t, env.db, course, "X", 10)
	bobs := testutil.CreateResult(t, env.db, assessment, bob, 9)

	if _, err := env.services.Result().GetByID(ctx, actorOf(alice), bobs.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
	got, err := env.services.Result().GetByID(ctx, actorOf(bob), bobs.ID)
	if err != nil {
		t.Fatalf("Owner should see own result, got %v", err)
	}
	if got.Score != 9 {
		t.Errorf("Unexpected score %d", got.Score)
	}
	if _, err := env.services.Result().List(ctx, actorOf(alice)); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected students to be refused the result list, got %v", err)
	}
}

func TestResult_InstructorUpdateAndDelete(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	teacher := testutil.CreateUser(t, env.db, "teacher", models.RoleInstructor)
	student := testutil.CreateUser(t, env.db, "student", models.RoleStudent)
	course := testutil.CreateCourse(t, env.db, teacher, "C")
	assessment := testutil.CreateAssessment(t, env.db, course, "X", 10)
	result := testutil.CreateResult(t, env.db, assessment, student, 4)
	other := testutil.CreateResult(t, env.db, assessment, student, 5)

	attempt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := env.services.Result().Update(ctx, actorOf(teacher), result.ID, &UpdateResultRequest{Score: 6, AttemptDate: attempt}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := env.services.Result().GetByID(ctx, actorOf(teacher), result.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Score != 6 || !got.AttemptDate.Equal(attempt) {
		t.Errorf("Update not applied: %+v", got)
	}

	if err := env.services.Result().Update(ctx, actorOf(student), result.ID, &UpdateResultRequest{Score: 10, AttemptDate: attempt}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected students to be refused updates, got %v", err)
	}

	if err := env.services.Result().Delete(ctx, actorOf(teacher), result.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := testutil.Count(t, env.db, &models.Result{}, "id = ?", other.ID); n != 1 {
		t.Error("Deleting one result must not touch others")
	}
	if err := env.services.Result().Delete(ctx, actorOf(teacher), result.ID); !errors.Is(err, ErrResultNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestResult_Export(t *testing.T) {
	env := setupServices(t)
	ctx := t.Context()
	teacher := testutil.CreateUser(t, env.db, "teacher", models.RoleInstructor)
	student := testutil.CreateUser(t, env.db, "student", models.RoleStudent)
	course := testutil.CreateCourse(t, env.db, teacher, "C")
	assessment := testutil.CreateAssessment(t, env.db, course, "Quiz", 10)
	testutil.CreateResult(t, env.db, assessment, student, 4)
	testutil.CreateResult(t, env.db, assessment, student, 8)

	var buf bytes.Buffer
	if err := env.services.Result().Export(ctx, actorOf(student), &buf); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected students to be refused the export, got %v", err)
	}

	if err := env.services.Result().Export(ctx, actorOf(teacher), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Export is not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Result ID" || rows[1][1] != student.Name || rows[1][3] != "Quiz" {
		t.Errorf("Unexpected rows %v", rows)
	}
}
