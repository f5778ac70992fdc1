// Package cascade plans the ordered removal of an entity and everything that references it.
package cascade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Kind string

const (
	KindResult     Kind = "result"
	KindAssessment Kind = "assessment"
	KindCourse     Kind = "course"
	KindUser       Kind = "user"
)

// Target is a single row scheduled for deletion
type Target struct {
	Kind Kind
	ID   uuid.UUID
}

// Plan lists targets deepest dependent first; the root is always last.
type Plan struct {
	Root    Target
	Targets []Target
}

// Step is a run of consecutive targets of the same kind, deletable in one statement
type Step struct {
	Kind Kind
	IDs  []uuid.UUID
}

// Steps groups consecutive targets of the same kind while keeping plan order
func (p *Plan) Steps() []Step {
	var steps []Step
	for _, t := range p.Targets {
		if n := len(steps); n > 0 && steps[n-1].Kind == t.Kind {
			steps[n-1].IDs = append(steps[n-1].IDs, t.ID)
			continue
		}
		steps = append(steps, Step{Kind: t.Kind, IDs: []uuid.UUID{t.ID}})
	}
	return steps
}

// Count returns how many targets of kind the plan removes
func (p *Plan) Count(kind Kind) int {
	n := 0
	for _, t := range p.Targets {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

// Graph answers the relation lookups the planner needs.
// Implementations should read inside the transaction that will execute the plan.
type Graph interface {
	CourseIDsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]uuid.UUID, error)
	AssessmentIDsByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error)
	ResultIDsByAssessments(ctx context.Context, assessmentIDs []uuid.UUID) ([]uuid.UUID, error)
	ResultIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type Planner struct {
	graph Graph
}

func NewPlanner(graph Graph) *Planner {
	return &Planner{graph: graph}
}

// PlanDeletion computes every row that must go before the root can be removed.
// Enrollment rows are left to the database's on-delete cascade.
func (p *Planner) PlanDeletion(ctx context.Context, kind Kind, id uuid.UUID) (*Plan, error) {
	b := newBuilder()

	switch kind {
	case KindResult:
		// no dependents
	case KindAssessment:
		if err := p.addAssessments(ctx, b, []uuid.UUID{id}, false); err != nil {
			return nil, err
		}
	case KindCourse:
		if err := p.addCourses(ctx, b, []uuid.UUID{id}, false); err != nil {
			return nil, err
		}
	case KindUser:
		courseIDs, err := p.graph.CourseIDsByInstructor(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load courses of user: %w", err)
		}
		if err := p.addCourses(ctx, b, courseIDs, true); err != nil {
			return nil, err
		}

		resultIDs, err := p.graph.ResultIDsByUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load results of user: %w", err)
		}
		b.add(KindResult, resultIDs...)
	default:
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}

	root := Target{Kind: kind, ID: id}
	b.add(kind, id)

	return &Plan{Root: root, Targets: b.targets}, nil
}

// addCourses schedules results, then assessments, then (optionally) the courses themselves
func (p *Planner) addCourses(ctx context.Context, b *builder, courseIDs []uuid.UUID, includeSelf bool) error {
	if len(courseIDs) == 0 {
		return nil
	}

	assessmentIDs, err := p.graph.AssessmentIDsByCourses(ctx, courseIDs)
	if err != nil {
		return fmt.Errorf("failed to load assessments of courses: %w", err)
	}
	if err := p.addAssessments(ctx, b, assessmentIDs, true); err != nil {
		return err
	}

	if includeSelf {
		b.add(KindCourse, courseIDs...)
	}
	return nil
}

func (p *Planner) addAssessments(ctx context.Context, b *builder, assessmentIDs []uuid.UUID, includeSelf bool) error {
	if len(assessmentIDs) == 0 {
		return nil
	}

	resultIDs, err := p.graph.ResultIDsByAssessments(ctx, assessmentIDs)
	if err != nil {
		return fmt.Errorf("failed to load results of assessments: %w", err)
	}
	b.add(KindResult, resultIDs...)

	if includeSelf {
		b.add(KindAssessment, assessmentIDs...)
	}
	return nil
}

// builder appends targets, dropping repeats so each row keeps its first (deepest) position
type builder struct {
	targets []Target
	seen    map[Target]struct{}
}

func newBuilder() *builder {
	return &builder{seen: make(map[Target]struct{})}
}

func (b *builder) add(kind Kind, ids ...uuid.UUID) {
	for _, id := range ids {
		t := Target{Kind: kind, ID: id}
		if _, ok := b.seen[t]; ok {
			continue
		}
		b.seen[t] = struct{}{}
		b.targets = append(b.targets, t)
	}
}
