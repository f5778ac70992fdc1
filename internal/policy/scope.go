package policy

import (
	"github.com/google/uuid"

	"github.com/SAP-F-2025/edusync-service/internal/models"
)

type ScopeKind int

const (
	// ScopeTaughtCourses limits a listing to courses the user instructs
	ScopeTaughtCourses ScopeKind = iota + 1
	// ScopeEnrolledCourses limits a listing to courses the user is enrolled in
	ScopeEnrolledCourses
)

// AssessmentScope tells the persistence layer which assessments an actor may list
type AssessmentScope struct {
	Kind   ScopeKind
	UserID uuid.UUID
}

// ScopeAssessments resolves the listing rule for assessments.
// It agrees with Check(actor, ListAssessments, ...) for every individual assessment.
func ScopeAssessments(actor Actor) (AssessmentScope, *Denial) {
	switch actor.Role {
	case models.RoleInstructor:
		return AssessmentScope{Kind: ScopeTaughtCourses, UserID: actor.ID}, nil
	case models.RoleStudent:
		return AssessmentScope{Kind: ScopeEnrolledCourses, UserID: actor.ID}, nil
	default:
		return AssessmentScope{}, invalidRole()
	}
}
