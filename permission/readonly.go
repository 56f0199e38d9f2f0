package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// ReadOnlyHandler wraps another handler and refuses every mutation, admin or
// not. Useful for derived/reporting endpoints where writes would bypass the
// pipeline that produced the rows.
type ReadOnlyHandler struct {
	inner Handler
}

func NewReadOnlyHandler(inner Handler) *ReadOnlyHandler {
	return &ReadOnlyHandler{inner: inner}
}

func (h *ReadOnlyHandler) ResourceType() string {
	return h.inner.ResourceType()
}

func (h *ReadOnlyHandler) CanPerformAction(p *auth.Principal, action auth.Action, resourceID *datatypes.UUID, ctx *ActionContext) bool {
	switch action {
	case auth.ActionGet, auth.ActionList:
		return h.inner.CanPerformAction(p, action, resourceID, ctx)
	}
	return false
}

func (h *ReadOnlyHandler) BuildQuery(db *gorm.DB, p *auth.Principal, action auth.Action) (*gorm.DB, error) {
	switch action {
	case auth.ActionGet, auth.ActionList:
		return h.inner.BuildQuery(db, p, action)
	}
	return nil, NewForbiddenError(h.inner.ResourceType(), action)
}
