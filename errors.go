package archon

import "fmt"

// TooManyComponentsError is raised when a distinct component type would
// be registered past Config.MaxComponents.
type TooManyComponentsError struct {
	Limit int
}

func (e TooManyComponentsError) Error() string {
	return fmt.Sprintf("archon: cannot register more than %d distinct component types", e.Limit)
}

// MissingComponentError is raised by GetComponent when the entity's
// archetype does not carry the requested component type.
type MissingComponentError struct {
	Entity    Entity
	Component string
}

func (e MissingComponentError) Error() string {
	return fmt.Sprintf("archon: entity %s has no component %s", e.Entity, e.Component)
}

// DeadEntityError is raised by GetComponent when the entity is no
// longer live (already destroyed, or a stale handle from a recycled id).
type DeadEntityError struct {
	Entity Entity
}

func (e DeadEntityError) Error() string {
	return fmt.Sprintf("archon: entity %s is not live", e.Entity)
}

// FilterOverlapError is raised by a query constructor when the same
// component type is named as both an inclusion and an exclusion.
type FilterOverlapError struct {
	Overlap Signature
}

func (e FilterOverlapError) Error() string {
	return fmt.Sprintf("archon: query filter includes and excludes the same component(s): %#x", uint64(e.Overlap))
}

// WorldBorrowedError is raised when a structural mutation (create,
// destroy, add/remove component) is attempted while a Query still
// holds an open borrow on the World.
type WorldBorrowedError struct{}

func (e WorldBorrowedError) Error() string {
	return "archon: structural mutation attempted while a query borrows the world"
}
