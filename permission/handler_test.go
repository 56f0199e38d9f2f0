package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

var (
	courseA = datatypes.NewUUIDFromStringNoErr("1e98bfc3-2721-492a-bfd3-09f7dd3c1565")
	courseB = datatypes.NewUUIDFromStringNoErr("d113ed09-cfc5-47a5-b35c-6f60c49cbd08")
	courseC = datatypes.NewUUIDFromStringNoErr("608a717a-bb4c-4a89-9038-457c3e4fc5e0")
)

func newPrincipal(roles map[string][]courserole.Role) *auth.Principal {
	dep := make(map[string][]courserole.Role, len(roles))
	for id, rs := range roles {
		dep[id] = rs
	}
	return &auth.Principal{
		UserID: datatypes.NewUUID(),
		Roles:  []string{"_user"},
		Claims: auth.Claims{
			General:   map[auth.GeneralClaim]bool{},
			Dependent: map[string]map[string][]courserole.Role{auth.ResourceCourse: dep},
		},
	}
}

func TestCanPerformAction_AdminSupremacy(t *testing.T) {
	p := &auth.Principal{UserID: datatypes.NewUUID(), IsAdmin: true}

	handlers := []Handler{
		NewUserHandler(), NewOrganizationHandler(), NewCourseHandler(),
		NewCourseMemberHandler(), NewCourseContentTypeHandler(),
		NewCourseContentHandler(), NewResultHandler(),
	}
	actions := []auth.Action{auth.ActionGet, auth.ActionList, auth.ActionCreate, auth.ActionUpdate, auth.ActionDelete}

	for _, h := range handlers {
		for _, action := range actions {
			assert.True(t, h.CanPerformAction(p, action, nil, nil),
				"%s %s should be allowed for admin", action, h.ResourceType())
		}
	}
}

func TestCanPerformAction_GeneralClaimBypassesCourseCheck(t *testing.T) {
	p := newPrincipal(nil) // no course membership anywhere
	p.Claims.General[auth.GeneralClaim{Resource: "course", Action: auth.ActionCreate}] = true

	h := NewCourseHandler()
	assert.True(t, h.CanPerformAction(p, auth.ActionCreate, nil, nil))
	assert.False(t, h.CanPerformAction(p, auth.ActionDelete, courseA, nil))
}

func TestCanPerformAction_CourseRoleFloor(t *testing.T) {
	p := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleMaintainer},
		courseB.String(): {courserole.RoleStudent},
	})

	h := NewCourseMemberHandler()
	ctxA := &ActionContext{CourseID: courseA}
	ctxB := &ActionContext{CourseID: courseB}

	assert.True(t, h.CanPerformAction(p, auth.ActionCreate, nil, ctxA))
	assert.False(t, h.CanPerformAction(p, auth.ActionCreate, nil, ctxB))
	assert.False(t, h.CanPerformAction(p, auth.ActionCreate, nil, &ActionContext{CourseID: courseC}))
	assert.False(t, h.CanPerformAction(p, auth.ActionCreate, nil, nil))
}

func TestCanPerformAction_ContextCourseWinsOverResourceID(t *testing.T) {
	// resourceID names a course the principal has no role in; the explicit
	// context course is what counts (e.g. update payload carrying ids)
	p := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleMaintainer},
	})

	h := NewCourseHandler()
	assert.True(t, h.CanPerformAction(p, auth.ActionUpdate, courseB, &ActionContext{CourseID: courseA}))
	assert.False(t, h.CanPerformAction(p, auth.ActionUpdate, courseB, nil))
}

func TestCanPerformAction_ParentCourseMismatchDenies(t *testing.T) {
	p := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleStudent},
	})

	h := NewResultHandler()
	sameParent := &ActionContext{CourseID: courseA, ParentCourseID: courseA}
	otherParent := &ActionContext{CourseID: courseA, ParentCourseID: courseB}

	assert.True(t, h.CanPerformAction(p, auth.ActionCreate, nil, sameParent))
	assert.False(t, h.CanPerformAction(p, auth.ActionCreate, nil, otherParent))
}

func TestCanPerformAction_UnknownActionDenies(t *testing.T) {
	p := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleOwner},
	})

	h := NewCourseHandler()
	assert.False(t, h.CanPerformAction(p, auth.Action("publish"), courseA, nil))
}

func TestCanPerformAction_NilRoleMapEntryIsAdminOnly(t *testing.T) {
	// owner of a course still cannot create new courses without a general
	// grant
	p := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleOwner},
	})

	assert.False(t, NewCourseHandler().CanPerformAction(p, auth.ActionCreate, nil, &ActionContext{CourseID: courseA}))
	assert.False(t, NewOrganizationHandler().CanPerformAction(p, auth.ActionDelete, nil, &ActionContext{CourseID: courseA}))
}

func TestCanPerformAction_UserSelfOnly(t *testing.T) {
	p := newPrincipal(nil)
	other := datatypes.NewUUID()

	h := NewUserHandler()
	assert.True(t, h.CanPerformAction(p, auth.ActionGet, p.UserID, nil))
	assert.True(t, h.CanPerformAction(p, auth.ActionUpdate, p.UserID, nil))
	assert.False(t, h.CanPerformAction(p, auth.ActionGet, other, nil))
	assert.False(t, h.CanPerformAction(p, auth.ActionDelete, p.UserID, nil))
	assert.False(t, h.CanPerformAction(p, auth.ActionCreate, nil, nil))
}

func TestCanPerformAction_ResultAttribution(t *testing.T) {
	// students file results under their own name only; tutors and above
	// attribute freely within the course
	student := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleStudent},
	})
	tutor := newPrincipal(map[string][]courserole.Role{
		courseA.String(): {courserole.RoleTutor},
	})

	h := NewResultHandler()
	own := &ActionContext{CourseID: courseA, ParentCourseID: courseA}
	foreign := &ActionContext{CourseID: courseA, ParentCourseID: courseA, ForeignAttribution: true}

	assert.True(t, h.CanPerformAction(student, auth.ActionCreate, nil, own))
	assert.False(t, h.CanPerformAction(student, auth.ActionCreate, nil, foreign))
	assert.True(t, h.CanPerformAction(tutor, auth.ActionCreate, nil, foreign))

	admin := &auth.Principal{UserID: datatypes.NewUUID(), IsAdmin: true}
	assert.True(t, h.CanPerformAction(admin, auth.ActionCreate, nil, foreign))
}

func TestReadOnlyHandler_DeniesWritesEvenForAdmin(t *testing.T) {
	admin := &auth.Principal{UserID: datatypes.NewUUID(), IsAdmin: true}

	h := NewReadOnlyHandler(NewResultHandler())
	assert.True(t, h.CanPerformAction(admin, auth.ActionList, nil, nil))
	assert.False(t, h.CanPerformAction(admin, auth.ActionUpdate, nil, nil))

	_, err := h.BuildQuery(nil, admin, auth.ActionDelete)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestNewForbiddenError_WrapsSentinel(t *testing.T) {
	err := NewForbiddenError("result", auth.ActionUpdate)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "update result")
}
