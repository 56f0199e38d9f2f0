package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// CourseMemberHandler guards the membership rows. The list floor is tutor,
// but everyone always sees their own row: a student asking for the members
// of their course gets exactly themself back, not an error.
type CourseMemberHandler struct {
	courseScoped
}

func NewCourseMemberHandler() *CourseMemberHandler {
	return &CourseMemberHandler{courseScoped{
		resource: "coursemember",
		roleMap: RoleMap{
			auth.ActionGet:    roleRef(courserole.RoleTutor),
			auth.ActionList:   roleRef(courserole.RoleTutor),
			auth.ActionCreate: roleRef(courserole.RoleMaintainer),
			auth.ActionUpdate: roleRef(courserole.RoleMaintainer),
			auth.ActionDelete: roleRef(courserole.RoleMaintainer),
		},
	}}
}

// CanPerformAction: the resource id is a membership row id, never a course
// id, so the course must come from the context.
func (h *CourseMemberHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	var courseID *datatypes.UUID
	if ctx != nil {
		courseID = ctx.CourseID
	}
	return h.decide(p, action, courseID, ctx)
}

func (h *CourseMemberHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.CourseMember{})
	if h.bypass(p, action) {
		return q, nil
	}

	min, err := h.minRoleForQuery(action)
	if err != nil {
		return nil, err
	}

	// Self-visibility union: own row regardless of the role floor. A user
	// can reach the same row through several memberships, hence DISTINCT.
	return q.Select(`DISTINCT "course_member".*`).
		Where(`"course_member".course_id IN (?) OR "course_member".user_id = ?`,
			UserCoursesQuery(db.New(), p.UserID, min).QueryExpr(), p.UserID), nil
}
