package permission

import (
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// ErrForbidden is returned by BuildQuery when the principal has no capability
// for the action at all. This is a hard deny: it must stay distinguishable
// from a query that legitimately matches zero rows.
var ErrForbidden = errors.New("permission: forbidden")

// NewForbiddenError wraps ErrForbidden with the resource/action that was
// denied. errors.Is(err, ErrForbidden) still holds.
func NewForbiddenError(resource string, action auth.Action) error {
	return fmt.Errorf("%w: %s %s", ErrForbidden, action, resource)
}

// ActionContext carries what the router already knows about where the action
// lands. For create/update the resource id is the resource itself, so the
// course has to come in here.
type ActionContext struct {
	// CourseID is the course the action is scoped to. Preferred over
	// resourceID when both could name a course.
	CourseID *datatypes.UUID

	// ParentCourseID is the course the parent entity (e.g. the content a
	// result is attached to) belongs to, when the router has resolved it.
	// A parent living in a different course denies the action even though
	// the course-role check passed.
	ParentCourseID *datatypes.UUID

	// ForeignAttribution marks a payload attributed to somebody else's
	// member row or to a submission group the principal is not in.
	// Acting on those takes tutor rank in the course.
	ForeignAttribution bool
}

// Handler decides actions and rewrites queries for exactly one entity type.
// Stateless; one instance serves all requests concurrently.
//
// For get/list the boolean decision is advisory only. Enforcement happens by
// construction in BuildQuery. CanPerformAction(list) == true does not promise
// a single row comes back.
type Handler interface {
	// ResourceType is the claim resource type this handler guards
	ResourceType() string

	// CanPerformAction decides a mutating single-resource action
	CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool

	// BuildQuery returns the entity query already narrowed to what p may
	// see. Admin and general grants get the unfiltered table. No capability
	// at all returns ErrForbidden.
	BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error)
}

// RoleMap maps an action to the minimum course role it needs. A nil entry
// (or a missing one) means the action is only available through the admin
// flag or a general claim.
type RoleMap map[auth.Action]*courserole.Role

func roleRef(r courserole.Role) *courserole.Role { return &r }

// courseScoped is the shared decision core every course-owned entity handler
// embeds. The order is fixed: admin, then general claim, then course role.
type courseScoped struct {
	resource string
	roleMap  RoleMap
}

func (h *courseScoped) ResourceType() string {
	return h.resource
}

// bypass is checks 1 and 2 of the protocol, shared between the decision path
// and the query path.
func (h *courseScoped) bypass(p *auth.Principal, action auth.Action) bool {
	if p.IsAdmin {
		return true
	}
	return p.HasGeneral(h.resource, action)
}

// courseIDFor picks the course the action is judged against. An explicit
// course in the context wins; for create/update the resourceID names the new
// resource, not the course.
func (h *courseScoped) courseIDFor(resourceID *datatypes.UUID, ctx *ActionContext) *datatypes.UUID {
	if ctx != nil && ctx.CourseID != nil {
		return ctx.CourseID
	}
	return resourceID
}

// decide runs the full protocol for a course-scoped entity whose course id
// has already been picked. Deny is a plain false, never an error.
func (h *courseScoped) decide(p *auth.Principal, action auth.Action, courseID *datatypes.UUID, ctx *ActionContext) bool {
	if h.bypass(p, action) {
		return true
	}

	min, ok := h.roleMap[action]
	if !ok || min == nil {
		return false
	}

	if !p.HasCourseRole(courseID, *min) {
		return false
	}

	// Parent-context constraint: the parent the new row hangs off must live
	// in the same course the role check ran against.
	if ctx != nil && ctx.ParentCourseID != nil && !ctx.ParentCourseID.Equal(courseID) {
		return false
	}

	return true
}

// minRoleForQuery resolves the role floor for the query path. Unlike decide,
// a missing capability here is a hard ErrForbidden, since "cannot build a
// query" and "query with zero rows" must not look alike.
func (h *courseScoped) minRoleForQuery(action auth.Action) (courserole.Role, error) {
	min, ok := h.roleMap[action]
	if !ok || min == nil {
		return "", NewForbiddenError(h.resource, action)
	}
	return *min, nil
}
