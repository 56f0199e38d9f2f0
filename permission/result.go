package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// ResultHandler guards submission results. Results carry no course id; the
// path to the course is result -> course_content -> course. Tutors and above
// see every result of their courses. Students see the results owned by one
// of their own course-member rows plus those of submission groups they are
// in, nothing else.
type ResultHandler struct {
	courseScoped
}

func NewResultHandler() *ResultHandler {
	return &ResultHandler{courseScoped{
		resource: "result",
		roleMap: RoleMap{
			auth.ActionGet:    roleRef(courserole.RoleStudent),
			auth.ActionList:   roleRef(courserole.RoleStudent),
			auth.ActionCreate: roleRef(courserole.RoleStudent),
			auth.ActionUpdate: roleRef(courserole.RoleTutor),
			auth.ActionDelete: roleRef(courserole.RoleTutor),
		},
	}}
}

// CanPerformAction: creating or grading a result is judged against the
// course in the context; the parent-course constraint (the content the
// result attaches to) rides along in decide. A result attributed to another
// member's row or to a group the principal is not in additionally takes
// tutor rank, so a student cannot file results in someone else's name.
func (h *ResultHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	var courseID *datatypes.UUID
	if ctx != nil {
		courseID = ctx.CourseID
	}
	if !h.decide(p, action, courseID, ctx) {
		return false
	}
	if ctx != nil && ctx.ForeignAttribution && !h.bypass(p, action) &&
		!p.HasCourseRole(courseID, courserole.RoleTutor) {
		return false
	}
	return true
}

func (h *ResultHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.Result{})
	if h.bypass(p, action) {
		return q, nil
	}

	if _, err := h.minRoleForQuery(action); err != nil {
		return nil, err
	}

	// Three legs: whole-course visibility at tutor rank, own submissions,
	// group submissions. A result reachable both directly and through a
	// group must still come back once, hence DISTINCT.
	return q.Select(`DISTINCT "result".*`).
		Where(`"result".course_content_id IN (?) OR "result".course_member_id IN (?) OR "result".course_submission_group_id IN (?)`,
			CourseContentsQuery(db.New(), p.UserID, courserole.RoleTutor).QueryExpr(),
			UserCourseMembersQuery(db.New(), p.UserID).QueryExpr(),
			UserSubmissionGroupsQuery(db.New(), p.UserID).QueryExpr()), nil
}
