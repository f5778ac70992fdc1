// Package policy decides whether an actor may perform an action on a resource.
//
// Decisions are pure: callers load the facts a rule needs (course owner, enrollment,
// target user) into a Resource and the policy never touches storage.
package policy

import (
	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/models"
)

// Actor is the authenticated identity making a request
type Actor struct {
	ID   uuid.UUID
	Role models.UserRole
}

type Action string

const (
	ListAssessments  Action = "assessment:list"
	ViewAssessment   Action = "assessment:view"
	CreateAssessment Action = "assessment:create"
	UpdateAssessment Action = "assessment:update"
	DeleteAssessment Action = "assessment:delete"

	ListCourses  Action = "course:list"
	ViewCourse   Action = "course:view"
	CreateCourse Action = "course:create"
	UpdateCourse Action = "course:update"
	DeleteCourse Action = "course:delete"

	ListEnrollments      Action = "enrollment:list"
	EnrollSelf           Action = "enrollment:enroll_self"
	EnrollStudent        Action = "enrollment:enroll_student"
	UnenrollSelf         Action = "enrollment:unenroll_self"
	UnenrollStudent      Action = "enrollment:unenroll_student"
	ListEnrolledStudents Action = "enrollment:list_students"

	ListUsers  Action = "user:list"
	ViewUser   Action = "user:view"
	UpdateUser Action = "user:update"
	CreateUser Action = "user:create"
	DeleteUser Action = "user:delete"

	ListResults   Action = "result:list"
	ViewResult    Action = "result:view"
	SubmitResult  Action = "result:submit"
	UpdateResult  Action = "result:update"
	DeleteResult  Action = "result:delete"
	ExportResults Action = "result:export"
)

// Resource carries the facts about the target that a rule may consult.
// Fields that do not apply to an action are left zero.
type Resource struct {
	// CourseInstructorID owns the course the action touches
	CourseInstructorID uuid.UUID
	// Enrolled reports whether the relevant student is enrolled in that course
	Enrolled bool

	TargetUserID   uuid.UUID
	TargetUserRole models.UserRole
	RequestedRole  models.UserRole

	// SubjectUserID is the user a submitted result claims to belong to
	SubjectUserID uuid.UUID
	ResultOwnerID uuid.UUID
}

type DenialCode int

const (
	DenyBadRequest DenialCode = iota + 1
	DenyForbidden
	DenyNotFound
	DenyConflict
)

func (c DenialCode) String() string {
	switch c {
	case DenyBadRequest:
		return "bad_request"
	case DenyForbidden:
		return "forbidden"
	case DenyNotFound:
		return "not_found"
	case DenyConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Denial explains why an action was refused
type Denial struct {
	Code   DenialCode
	Reason string
}

func (d *Denial) Error() string {
	return d.Reason
}

const ReasonInvalidRole = "Invalid user role"

func forbid(reason string) *Denial {
	return &Denial{Code: DenyForbidden, Reason: reason}
}

func invalidRole() *Denial {
	return &Denial{Code: DenyBadRequest, Reason: ReasonInvalidRole}
}

// Permitted reports whether actor may perform action on resource
func Permitted(actor Actor, action Action, resource Resource) bool {
	return Check(actor, action, resource) == nil
}

// Check returns nil when the action is allowed, otherwise the reason it is not.
func Check(actor Actor, action Action, resource Resource) *Denial {
	switch actor.Role {
	case models.RoleInstructor:
		return checkInstructor(actor, action, resource)
	case models.RoleStudent:
		return checkStudent(actor, action, resource)
	default:
		return invalidRole()
	}
}

func checkInstructor(actor Actor, action Action, res Resource) *Denial {
	ownsCourse := res.CourseInstructorID == actor.ID

	switch action {
	case ListAssessments:
		if !ownsCourse {
			return forbid("Assessment belongs to a course taught by another instructor")
		}
		return nil
	case ViewAssessment, ListCourses, ViewCourse, CreateCourse, ListUsers, ViewUser:
		return nil
	case CreateUser:
		if res.RequestedRole != models.RoleStudent {
			return forbid("Instructors can only create student accounts")
		}
		return nil
	case CreateAssessment, UpdateAssessment, DeleteAssessment:
		if !ownsCourse {
			return forbid("You can only manage assessments for your own courses")
		}
		return nil
	case UpdateCourse, DeleteCourse:
		if !ownsCourse {
			return forbid("You can only modify your own courses")
		}
		return nil
	case EnrollStudent:
		if !ownsCourse {
			return forbid("You can only enroll students in your own courses")
		}
		if res.TargetUserRole != models.RoleStudent {
			return &Denial{Code: DenyNotFound, Reason: "Student not found"}
		}
		if res.Enrolled {
			return &Denial{Code: DenyConflict, Reason: "Student is already enrolled in this course"}
		}
		return nil
	case UnenrollStudent:
		if !ownsCourse {
			return forbid("You can only remove students from your own courses")
		}
		if !res.Enrolled {
			return &Denial{Code: DenyNotFound, Reason: "Student is not enrolled in this course"}
		}
		return nil
	case ListEnrolledStudents:
		if !ownsCourse {
			return forbid("You can only view students of your own courses")
		}
		return nil
	case UpdateUser:
		if res.TargetUserRole == models.RoleInstructor && res.TargetUserID != actor.ID {
			return forbid("Instructors cannot modify other instructors' accounts")
		}
		if res.TargetUserRole == models.RoleStudent && res.RequestedRole == models.RoleInstructor {
			return forbid("Cannot change a student's role to instructor")
		}
		return nil
	case DeleteUser:
		if res.TargetUserRole == models.RoleInstructor {
			return forbid("Instructors cannot be deleted")
		}
		return nil
	case ListResults, ViewResult, UpdateResult, DeleteResult, ExportResults:
		// Results are not scoped to course ownership for instructors.
		return nil
	case ListEnrollments, EnrollSelf, UnenrollSelf, SubmitResult:
		return forbid("Only students can perform this action")
	default:
		return forbid("Unknown action")
	}
}

func checkStudent(actor Actor, action Action, res Resource) *Denial {
	switch action {
	case ListAssessments, ViewAssessment:
		if !res.Enrolled {
			return forbid("You are not enrolled in this course")
		}
		return nil
	case ListCourses, ViewCourse, ListEnrollments:
		return nil
	case EnrollSelf:
		if res.Enrolled {
			return &Denial{Code: DenyConflict, Reason: "You are already enrolled in this course"}
		}
		return nil
	case UnenrollSelf:
		if !res.Enrolled {
			return &Denial{Code: DenyNotFound, Reason: "You are not enrolled in this course"}
		}
		return nil
	case ViewUser:
		if res.TargetUserID != actor.ID {
			return forbid("Students can only view their own profile")
		}
		return nil
	case UpdateUser:
		if res.TargetUserID != actor.ID {
			return forbid("Students can only update their own profile")
		}
		if res.RequestedRole != res.TargetUserRole {
			return &Denial{Code: DenyBadRequest, Reason: "Students cannot change their role"}
		}
		return nil
	case ViewResult:
		if res.ResultOwnerID != actor.ID {
			return forbid("Students can only view their own results")
		}
		return nil
	case SubmitResult:
		if res.SubjectUserID != actor.ID {
			return &Denial{Code: DenyBadRequest, Reason: "Students can only submit their own results"}
		}
		return nil
	case CreateAssessment, UpdateAssessment, DeleteAssessment,
		CreateCourse, UpdateCourse, DeleteCourse,
		EnrollStudent, UnenrollStudent, ListEnrolledStudents,
		ListUsers, CreateUser, DeleteUser,
		ListResults, UpdateResult, DeleteResult, ExportResults:
		return forbid("Only instructors can perform this action")
	default:
		return forbid("Unknown action")
	}
}
