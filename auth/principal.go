package auth

import (
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// Action is a capability name as used in claims and the per-handler role maps
type Action string

const (
	ActionGet    Action = "get"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceCourse is the resource type that dependent claims are currently
// keyed on. Kept as a constant so a future resource type (e.g. organization
// membership) is a new key, not a schema change.
const ResourceCourse = "course"

// GeneralClaim keys a blanket grant: "may do Action on any resource of
// this type", independent of any course membership.
type GeneralClaim struct {
	Resource string
	Action   Action
}

// Claims carries everything the token told us about what the user may do.
// Populated once at authentication time, read-only afterwards.
type Claims struct {
	// General maps (resource type, action) to a grant
	General map[GeneralClaim]bool

	// Dependent maps resource type -> resource id -> course roles held in
	// that specific instance. A user can be _tutor in course A and _student
	// in course B at the same time.
	Dependent map[string]map[string][]courserole.Role
}

// Principal is the authenticated caller of one request. Built by the auth
// middleware, discarded when the request ends. Never mutated mid-request,
// which is what makes the permission handlers safe to share across requests.
type Principal struct {
	UserID  *datatypes.UUID
	IsAdmin bool

	// Roles are global roles such as "_admin" or "_user", not course roles
	Roles []string

	Claims Claims
}

// HasGeneral reports whether the principal holds a blanket grant for the
// action on the resource type.
func (p *Principal) HasGeneral(resource string, action Action) bool {
	if p.Claims.General == nil {
		return false
	}
	return p.Claims.General[GeneralClaim{Resource: resource, Action: action}]
}

// CourseRoles returns every course role the principal holds in the given
// course. Nil course id or no membership yields an empty slice.
func (p *Principal) CourseRoles(courseID *datatypes.UUID) []courserole.Role {
	if courseID == nil {
		return nil
	}
	byID, ok := p.Claims.Dependent[ResourceCourse]
	if !ok {
		return nil
	}
	return byID[courseID.String()]
}

// HasCourseRole reports whether any role the principal holds in the course
// satisfies min. Any single qualifying role is enough.
func (p *Principal) HasCourseRole(courseID *datatypes.UUID, min courserole.Role) bool {
	for _, held := range p.CourseRoles(courseID) {
		if courserole.HasRolePermission(held, min) {
			return true
		}
	}
	return false
}
