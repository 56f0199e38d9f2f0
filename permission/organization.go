package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// OrganizationHandler guards organizations. Visibility is transitive: being
// a member of any course under an organization makes the organization
// readable. Creating or altering organizations needs the admin flag or a
// general "organization" grant ("can create any organization").
type OrganizationHandler struct {
	courseScoped
}

func NewOrganizationHandler() *OrganizationHandler {
	return &OrganizationHandler{courseScoped{
		resource: "organization",
		roleMap: RoleMap{
			auth.ActionGet:    roleRef(courserole.RoleStudent),
			auth.ActionList:   roleRef(courserole.RoleStudent),
			auth.ActionCreate: nil,
			auth.ActionUpdate: nil,
			auth.ActionDelete: nil,
		},
	}}
}

func (h *OrganizationHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	var courseID *datatypes.UUID
	if ctx != nil {
		courseID = ctx.CourseID
	}
	return h.decide(p, action, courseID, ctx)
}

func (h *OrganizationHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.Organization{})
	if h.bypass(p, action) {
		return q, nil
	}

	min, err := h.minRoleForQuery(action)
	if err != nil {
		return nil, err
	}

	return q.Where(`"organization".id IN (?)`,
		CourseOrganizationsQuery(db.New(), p.UserID, min).QueryExpr()), nil
}
