package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// fakeGraph is an in-memory relation store
type fakeGraph struct {
	courseInstructor   map[uuid.UUID]uuid.UUID // course -> instructor
	assessmentCourse   map[uuid.UUID]uuid.UUID // assessment -> course
	resultAssessment   map[uuid.UUID]uuid.UUID // result -> assessment
	resultUser         map[uuid.UUID]uuid.UUID // result -> user
	order              []uuid.UUID             // insertion order for deterministic output
	failResultsForUser bool
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		courseInstructor: map[uuid.UUID]uuid.UUID{},
		assessmentCourse: map[uuid.UUID]uuid.UUID{},
		resultAssessment: map[uuid.UUID]uuid.UUID{},
		resultUser:       map[uuid.UUID]uuid.UUID{},
	}
}

func (g *fakeGraph) course(instructor uuid.UUID) uuid.UUID {
	id := uuid.New()
	g.courseInstructor[id] = instructor
	g.order = append(g.order, id)
	return id
}

func (g *fakeGraph) assessment(course uuid.UUID) uuid.UUID {
	id := uuid.New()
	g.assessmentCourse[id] = course
	g.order = append(g.order, id)
	return id
}

func (g *fakeGraph) result(assessment, user uuid.UUID) uuid.UUID {
	id := uuid.New()
	g.resultAssessment[id] = assessment
	g.resultUser[id] = user
	g.order = append(g.order, id)
	return id
}

func (g *fakeGraph) collect(match func(id uuid.UUID) bool) []uuid.UUID {
	var out []uuid.UUID
	for _, id := range g.order {
		if match(id) {
			out = append(out, id)
		}
	}
	return out
}

func (g *fakeGraph) CourseIDsByInstructor(ctx context.Context, instructorID uuid.UUID) ([]uuid.UUID, error) {
	return g.collect(func(id uuid.UUID) bool {
		owner, ok := g.courseInstructor[id]
		return ok && owner == instructorID
	}), nil
}

func (g *fakeGraph) AssessmentIDsByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error) {
	set := toSet(courseIDs)
	return g.collect(func(id uuid.UUID) bool {
		course, ok := g.assessmentCourse[id]
		_, in := set[course]
		return ok && in
	}), nil
}

func (g *fakeGraph) ResultIDsByAssessments(ctx context.Context, assessmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	set := toSet(assessmentIDs)
	return g.collect(func(id uuid.UUID) bool {
		assessment, ok := g.resultAssessment[id]
		_, in := set[assessment]
		return ok && in
	}), nil
}

func (g *fakeGraph) ResultIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if g.failResultsForUser {
		return nil, errors.New("connection reset")
	}
	return g.collect(func(id uuid.UUID) bool {
		user, ok := g.resultUser[id]
		return ok && user == userID
	}), nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// positions indexes a plan and fails on duplicates
func positions(t *testing.T, plan *Plan) map[Target]int {
	t.Helper()
	pos := make(map[Target]int, len(plan.Targets))
	for i, target := range plan.Targets {
		if _, dup := pos[target]; dup {
			t.Fatalf("Target %v appears twice in plan", target)
		}
		pos[target] = i
	}
	return pos
}

func TestPlanDeletion_Result(t *testing.T) {
	g := newFakeGraph()
	id := uuid.New()

	plan, err := NewPlanner(g).PlanDeletion(context.Background(), KindResult, id)
	if err != nil {
		t.Fatalf("PlanDeletion failed: %v", err)
	}

	if len(plan.Targets) != 1 || plan.Targets[0] != (Target{Kind: KindResult, ID: id}) {
		t.Errorf("Expected only the result itself, got %v", plan.Targets)
	}
}

func TestPlanDeletion_Assessment(t *testing.T) {
	g := newFakeGraph()
	instructor, s1, s2 := uuid.New(), uuid.New(), uuid.New()
	course := g.course(instructor)
	target := g.assessment(course)
	other := g.assessment(course)
	r1 := g.result(target, s1)
	r2 := g.result(target, s2)
	g.result(other, s1)

	plan, err := NewPlanner(g).PlanDeletion(context.Background(), KindAssessment, target)
	if err != nil {
		t.Fatalf("PlanDeletion failed: %v", err)
	}

	want := []Target{{KindResult, r1}, {KindResult, r2}, {KindAssessment, target}}
	if len(plan.Targets) != len(want) {
		t.Fatalf("Expected %v, got %v", want, plan.Targets)
	}
	for i := range want {
		if plan.Targets[i] != want[i] {
			t.Errorf("Position %d: expected %v, got %v", i, want[i], plan.Targets[i])
		}
	}
}

func TestPlanDeletion_Course(t *testing.T) {
	g := newFakeGraph()
	instructor, s := uuid.New(), uuid.New()
	course := g.course(instructor)
	otherCourse := g.course(instructor)
	a1 := g.assessment(course)
	a2 := g.assessment(course)
	untouched := g.assessment(otherCourse)
	r1 := g.result(a1, s)
	r2 := g.result(a2, s)
	g.result(untouched, s)

	plan, err := NewPlanner(g).PlanDeletion(context.Background(), KindCourse, course)
	if err != nil {
		t.Fatalf("PlanDeletion failed: %v", err)
	}

	pos := positions(t, plan)
	if len(pos) != 5 {
		t.Fatalf("Expected 5 targets, got %v", plan.Targets)
	}
	for _, r := range []uuid.UUID{r1, r2} {
		for _, a := range []uuid.UUID{a1, a2} {
			if pos[Target{KindResult, r}] > pos[Target{KindAssessment, a}] {
				t.Errorf("Result %s must precede assessment %s", r, a)
			}
		}
	}
	if last := plan.Targets[len(plan.Targets)-1]; last != (Target{KindCourse, course}) {
		t.Errorf("Expected course last, got %v", last)
	}
	if _, ok := pos[Target{KindAssessment, untouched}]; ok {
		t.Error("Assessment of another course must not be planned")
	}

	steps := plan.Steps()
	if len(steps) != 3 || steps[0].Kind != KindResult || steps[1].Kind != KindAssessment || steps[2].Kind != KindCourse {
		t.Errorf("Unexpected steps: %+v", steps)
	}
}

func TestPlanDeletion_InstructorUser(t *testing.T) {
	g := newFakeGraph()
	instructor, s := uuid.New(), uuid.New()
	otherInstructor := uuid.New()

	c1 := g.course(instructor)
	c2 := g.course(instructor)
	foreign := g.course(otherInstructor)
	a1 := g.assessment(c1)
	a2 := g.assessment(c2)
	fa := g.assessment(foreign)
	r1 := g.result(a1, s)
	r2 := g.result(a2, s)
	// the instructor also has a result in another instructor's course
	own := g.result(fa, instructor)
	// and one in their own course, which must only appear once
	ownInOwnCourse := g.result(a1, instructor)

	plan, err := NewPlanner(g).PlanDeletion(context.Background(), KindUser, instructor)
	if err != nil {
		t.Fatalf("PlanDeletion failed: %v", err)
	}

	pos := positions(t, plan)
	if plan.Count(KindResult) != 4 || plan.Count(KindAssessment) != 2 || plan.Count(KindCourse) != 2 || plan.Count(KindUser) != 1 {
		t.Fatalf("Unexpected plan: %v", plan.Targets)
	}

	for _, r := range []uuid.UUID{r1, r2, ownInOwnCourse} {
		if pos[Target{KindResult, r}] > pos[Target{KindAssessment, a1}] {
			t.Errorf("Result %s must precede assessments", r)
		}
	}
	for _, a := range []uuid.UUID{a1, a2} {
		for _, c := range []uuid.UUID{c1, c2} {
			if pos[Target{KindAssessment, a}] > pos[Target{KindCourse, c}] {
				t.Errorf("Assessment %s must precede course %s", a, c)
			}
		}
	}
	if pos[Target{KindResult, own}] < pos[Target{KindCourse, c2}] {
		t.Error("Results authored by the user are removed after the taught courses")
	}
	if _, ok := pos[Target{KindAssessment, fa}]; ok {
		t.Error("Another instructor's assessment must not be planned")
	}
	if plan.Targets[len(plan.Targets)-1] != (Target{KindUser, instructor}) {
		t.Error("User must be deleted last")
	}
}

func TestPlanDeletion_StudentRemovesOnlyOwnResults(t *testing.T) {
	g := newFakeGraph()
	instructor, s, other := uuid.New(), uuid.New(), uuid.New()
	course := g.course(instructor)
	a := g.assessment(course)
	mine := []uuid.UUID{g.result(a, s), g.result(a, s), g.result(a, s)}
	g.result(a, other)

	plan, err := NewPlanner(g).PlanDeletion(context.Background(), KindUser, s)
	if err != nil {
		t.Fatalf("PlanDeletion failed: %v", err)
	}

	if plan.Count(KindResult) != 3 {
		t.Fatalf("Expected exactly 3 results, got %v", plan.Targets)
	}
	pos := positions(t, plan)
	for _, r := range mine {
		if _, ok := pos[Target{KindResult, r}]; !ok {
			t.Errorf("Result %s missing from plan", r)
		}
	}
	if plan.Count(KindCourse) != 0 || plan.Count(KindAssessment) != 0 {
		t.Error("Student deletion must not touch courses or assessments")
	}
}

func TestPlanDeletion_GraphError(t *testing.T) {
	g := newFakeGraph()
	g.failResultsForUser = true

	if _, err := NewPlanner(g).PlanDeletion(context.Background(), KindUser, uuid.New()); err == nil {
		t.Fatal("Expected graph error to be returned")
	}
}

func TestPlanDeletion_UnknownKind(t *testing.T) {
	if _, err := NewPlanner(newFakeGraph()).PlanDeletion(context.Background(), Kind("enrollment"), uuid.New()); err == nil {
		t.Fatal("Expected error for unsupported kind")
	}
}
