package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// CourseHandler guards the course table itself. Any member sees their own
// courses; creating a course is reserved to admins and general grants since
// at creation time there is no membership to check against.
type CourseHandler struct {
	courseScoped
}

func NewCourseHandler() *CourseHandler {
	return &CourseHandler{courseScoped{
		resource: "course",
		roleMap: RoleMap{
			auth.ActionGet:    roleRef(courserole.RoleStudent),
			auth.ActionList:   roleRef(courserole.RoleStudent),
			auth.ActionCreate: nil,
			auth.ActionUpdate: roleRef(courserole.RoleMaintainer),
			auth.ActionDelete: roleRef(courserole.RoleOwner),
		},
	}}
}

// CanPerformAction decides against the course itself; here the resource id
// is the course id unless the context says otherwise.
func (h *CourseHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	return h.decide(p, action, h.courseIDFor(resourceID, ctx), ctx)
}

func (h *CourseHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.Course{})
	if h.bypass(p, action) {
		return q, nil
	}

	min, err := h.minRoleForQuery(action)
	if err != nil {
		return nil, err
	}

	return q.Where(`"course".id IN (?)`,
		UserCoursesQuery(db.New(), p.UserID, min).QueryExpr()), nil
}
