package assistant

import (
	"context"
	"fmt"

	"github.com/cleitonmarx/symbiont/depend"

	"github.com/mirahq/academy-crm/internal/domain"
)

// maxCandidates caps the suggestion list returned for an ambiguous match.
const maxCandidates = 5

// resolverPageSize bounds how many records a single resolution scans.
const resolverPageSize = 50

// Resolver turns a partial, case-insensitive name into a concrete record.
type Resolver interface {
	Resolve(ctx context.Context, kind domain.EntityKind, query string) (domain.Resolution, error)
}

// EntityResolver resolves names against the store, fetching fresh on every
// call so renames and deletions are visible immediately.
type EntityResolver struct {
	students  domain.StudentRepository
	employees domain.EmployeeRepository
	courses   domain.CourseRepository
	tasks     domain.TaskRepository
}

// NewEntityResolver creates a new EntityResolver.
func NewEntityResolver(
	students domain.StudentRepository,
	employees domain.EmployeeRepository,
	courses domain.CourseRepository,
	tasks domain.TaskRepository,
) EntityResolver {
	return EntityResolver{
		students:  students,
		employees: employees,
		courses:   courses,
		tasks:     tasks,
	}
}

// Resolve matches query against display names of the given kind. Zero matches
// yield NotFound, exactly one yields Found, two or more yield Ambiguous with
// candidates in store order, capped at maxCandidates.
func (r EntityResolver) Resolve(ctx context.Context, kind domain.EntityKind, query string) (domain.Resolution, error) {
	candidates, err := r.fetchCandidates(ctx, kind, query)
	if err != nil {
		return domain.Resolution{}, err
	}

	switch len(candidates) {
	case 0:
		return domain.Resolution{Outcome: domain.ResolutionOutcome_NotFound}, nil
	case 1:
		return domain.Resolution{
			Outcome: domain.ResolutionOutcome_Found,
			Match:   candidates[0],
		}, nil
	default:
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return domain.Resolution{
			Outcome:    domain.ResolutionOutcome_Ambiguous,
			Candidates: candidates,
		}, nil
	}
}

func (r EntityResolver) fetchCandidates(ctx context.Context, kind domain.EntityKind, query string) ([]domain.Candidate, error) {
	switch kind {
	case domain.EntityKind_Student:
		students, _, err := r.students.ListStudents(ctx, 1, resolverPageSize, domain.WithStudentNameContains(query))
		if err != nil {
			return nil, err
		}
		candidates := make([]domain.Candidate, 0, len(students))
		for _, s := range students {
			candidates = append(candidates, domain.Candidate{ID: s.ID, Name: s.Name})
		}
		return candidates, nil
	case domain.EntityKind_Employee:
		employees, _, err := r.employees.ListEmployees(ctx, 1, resolverPageSize, domain.WithEmployeeNameContains(query))
		if err != nil {
			return nil, err
		}
		candidates := make([]domain.Candidate, 0, len(employees))
		for _, e := range employees {
			candidates = append(candidates, domain.Candidate{ID: e.ID, Name: e.Name})
		}
		return candidates, nil
	case domain.EntityKind_Course:
		courses, _, err := r.courses.ListCourses(ctx, 1, resolverPageSize, domain.WithCourseNameContains(query))
		if err != nil {
			return nil, err
		}
		candidates := make([]domain.Candidate, 0, len(courses))
		for _, c := range courses {
			candidates = append(candidates, domain.Candidate{ID: c.ID, Name: c.Name})
		}
		return candidates, nil
	case domain.EntityKind_Task:
		tasks, _, err := r.tasks.ListTasks(ctx, 1, resolverPageSize, domain.WithTaskTitleContains(query))
		if err != nil {
			return nil, err
		}
		candidates := make([]domain.Candidate, 0, len(tasks))
		for _, t := range tasks {
			candidates = append(candidates, domain.Candidate{ID: t.ID, Name: t.Title})
		}
		return candidates, nil
	default:
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}
}

// InitResolver wires the entity resolver into the dependency container.
type InitResolver struct {
	Students  domain.StudentRepository  `resolve:""`
	Employees domain.EmployeeRepository `resolve:""`
	Courses   domain.CourseRepository   `resolve:""`
	Tasks     domain.TaskRepository     `resolve:""`
}

func (i InitResolver) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[Resolver](NewEntityResolver(
		i.Students,
		i.Employees,
		i.Courses,
		i.Tasks,
	))
	return ctx, nil
}
