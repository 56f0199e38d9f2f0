package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// CourseContentTypeHandler guards content types. Reads are open to any
// member of the owning course at any role; writes require lecturer rank in
// that same course, not lecturer rank anywhere.
type CourseContentTypeHandler struct {
	courseScoped
}

func NewCourseContentTypeHandler() *CourseContentTypeHandler {
	return &CourseContentTypeHandler{courseScoped{
		resource: "coursecontenttype",
		roleMap: RoleMap{
			auth.ActionGet:    roleRef(courserole.RoleStudent),
			auth.ActionList:   roleRef(courserole.RoleStudent),
			auth.ActionCreate: roleRef(courserole.RoleLecturer),
			auth.ActionUpdate: roleRef(courserole.RoleLecturer),
			auth.ActionDelete: roleRef(courserole.RoleLecturer),
		},
	}}
}

func (h *CourseContentTypeHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	var courseID *datatypes.UUID
	if ctx != nil {
		courseID = ctx.CourseID
	}
	return h.decide(p, action, courseID, ctx)
}

func (h *CourseContentTypeHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.CourseContentType{})
	if h.bypass(p, action) {
		return q, nil
	}

	min, err := h.minRoleForQuery(action)
	if err != nil {
		return nil, err
	}

	return q.Where(`"course_content_type".course_id IN (?)`,
		UserCoursesQuery(db.New(), p.UserID, min).QueryExpr()), nil
}
