package domain

import "github.com/google/uuid"

// EntityKind names a resolvable entity collection.
type EntityKind string

const (
	EntityKind_Student  EntityKind = "student"
	EntityKind_Employee EntityKind = "employee"
	EntityKind_Course   EntityKind = "course"
	EntityKind_Task     EntityKind = "task"
)

// ResolutionOutcome is the tagged result of a by-name lookup.
type ResolutionOutcome string

const (
	// ResolutionOutcome_Found indicates exactly one entity matched.
	ResolutionOutcome_Found ResolutionOutcome = "found"
	// ResolutionOutcome_NotFound indicates no entity matched.
	ResolutionOutcome_NotFound ResolutionOutcome = "not_found"
	// ResolutionOutcome_Ambiguous indicates two or more entities matched.
	ResolutionOutcome_Ambiguous ResolutionOutcome = "ambiguous"
)

// Candidate is one entity that matched a name query.
type Candidate struct {
	ID   uuid.UUID
	Name string
}

// Resolution is the outcome of resolving a free-text name against the store.
// Match is set only when Outcome is Found; Candidates only when Ambiguous,
// in store order, capped by the resolver.
type Resolution struct {
	Outcome    ResolutionOutcome
	Match      Candidate
	Candidates []Candidate
}
