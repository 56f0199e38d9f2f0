package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// CourseSubmissionGroupHandler guards submission groups. Groups come out of
// the group-formation flow, not out of the generic router, so the registry
// wraps this handler in ReadOnlyHandler and only reads ever reach it.
// Tutors and above see every group of their courses, students the groups
// they are in.
type CourseSubmissionGroupHandler struct {
	courseScoped
}

func NewCourseSubmissionGroupHandler() *CourseSubmissionGroupHandler {
	return &CourseSubmissionGroupHandler{courseScoped{
		resource: "coursesubmissiongroup",
		roleMap: RoleMap{
			auth.ActionGet:  roleRef(courserole.RoleStudent),
			auth.ActionList: roleRef(courserole.RoleStudent),
		},
	}}
}

func (h *CourseSubmissionGroupHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	var courseID *datatypes.UUID
	if ctx != nil {
		courseID = ctx.CourseID
	}
	return h.decide(p, action, courseID, ctx)
}

func (h *CourseSubmissionGroupHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.CourseSubmissionGroup{})
	if h.bypass(p, action) {
		return q, nil
	}

	if _, err := h.minRoleForQuery(action); err != nil {
		return nil, err
	}

	// Same fan-out as results: a group can be reachable both as tutor and
	// as group member.
	return q.Select(`DISTINCT "course_submission_group".*`).
		Where(`"course_submission_group".course_content_id IN (?) OR "course_submission_group".id IN (?)`,
			CourseContentsQuery(db.New(), p.UserID, courserole.RoleTutor).QueryExpr(),
			UserSubmissionGroupsQuery(db.New(), p.UserID).QueryExpr()), nil
}
