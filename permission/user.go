package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/models"
)

// UserHandler guards the user table. Users have no course dependency of
// their own: you may always read and update yourself, and you may see the
// co-members of courses where you hold tutor rank or above. Creating or
// deleting accounts is admin/general territory.
type UserHandler struct {
	courseScoped
}

func NewUserHandler() *UserHandler {
	return &UserHandler{courseScoped{
		resource: "user",
		// Intentionally empty: nothing on this table is unlocked by a
		// course role directly.
		roleMap: RoleMap{},
	}}
}

func (h *UserHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	if h.bypass(p, action) {
		return true
	}

	switch action {
	case auth.ActionGet, auth.ActionList, auth.ActionUpdate:
		// own record only
		return resourceID != nil && resourceID.Equal(p.UserID)
	}

	return false
}

func (h *UserHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	q := db.Model(&models.User{})
	if h.bypass(p, action) {
		return q, nil
	}

	switch action {
	case auth.ActionGet, auth.ActionList:
		return q.Where(`"user".id = ? OR "user".id IN (?)`,
			p.UserID, VisibleUsersQuery(db.New(), p.UserID).QueryExpr()), nil
	}

	return nil, NewForbiddenError(h.resource, action)
}
