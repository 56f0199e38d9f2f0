package courserole

// Role is a course-scoped role identifier as stored in the course_member table
type Role string

const (
	// RoleStudent is the lowest course role
	RoleStudent Role = "_student"

	// RoleTutor can see and grade the submissions of the groups assigned to it
	RoleTutor Role = "_tutor"

	// RoleLecturer manages the content of a course
	RoleLecturer Role = "_lecturer"

	// RoleMaintainer manages members and course settings
	RoleMaintainer Role = "_maintainer"

	// RoleOwner is the highest course role
	RoleOwner Role = "_owner"
)

// hierarchy is the fixed total ordering, lowest privilege first.
// Built once at process start and never mutated.
var hierarchy = []Role{RoleStudent, RoleTutor, RoleLecturer, RoleMaintainer, RoleOwner}

var rankOf = func() map[Role]int {
	m := make(map[Role]int, len(hierarchy))
	for i, r := range hierarchy {
		m[r] = i
	}
	return m
}()

// HasRolePermission reports whether held satisfies a required role, i.e. its
// rank in the hierarchy is at least required's rank.
// An unknown role identifier never satisfies anything, and nothing satisfies
// requiring one; a stray identifier in a claim set reads as no privilege.
func HasRolePermission(held, required Role) bool {
	heldRank, ok := rankOf[held]
	if !ok {
		return false
	}
	requiredRank, ok := rankOf[required]
	if !ok {
		return false
	}
	return heldRank >= requiredRank
}

// AtLeast returns every role whose rank is at least min's, in hierarchy order.
// This is what lets the membership filter be an explicit SQL IN over role names
// instead of a rank comparison the database knows nothing about.
// Unknown min returns nil, which turns into an empty IN, i.e. no row qualifies.
func AtLeast(min Role) []Role {
	minRank, ok := rankOf[min]
	if !ok {
		return nil
	}
	return hierarchy[minRank:]
}

// Valid reports whether r is part of the hierarchy.
func Valid(r Role) bool {
	_, ok := rankOf[r]
	return ok
}
