package routes

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/render"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"

	"github.com/lektor-lms/lektor/auth"
	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/libs/urlparam"
	"github.com/lektor-lms/lektor/libs/utils/transact"
	"github.com/lektor-lms/lektor/libs/webrender"
	"github.com/lektor-lms/lektor/models"
	"github.com/lektor-lms/lektor/permission"
)

// Server binds the permission registry to the generic CRUD endpoints. It
// holds no per-request state; everything request-scoped comes out of the gin
// context.
type Server struct {
	DB       *gorm.DB
	Registry *permission.Registry
	Logger   *logrus.Logger
}

func (s *Server) handlerFor(c *gin.Context, resource string) (permission.Handler, *auth.Principal, bool) {
	h, ok := s.Registry.Handler(resource)
	if !ok {
		renderErr(c, webrender.NewErrNotFound(fmt.Errorf("no such resource %s", resource)))
		return nil, nil, false
	}
	p, ok := PrincipalFromContext(c)
	if !ok {
		renderErr(c, webrender.NewErrTokenInvalid(fmt.Errorf("no principal on request")))
		return nil, nil, false
	}
	return h, p, true
}

func (s *Server) tableName(m models.IModel) string {
	return s.DB.NewScope(m).TableName()
}

// scopeToID narrows a visibility-filtered query down to one row.
func (s *Server) scopeToID(q *gorm.DB, m models.IModel, id *datatypes.UUID) *gorm.DB {
	return q.Where(fmt.Sprintf(`"%s".id = ?`, s.tableName(m)), id)
}

// fetchVisible loads one row through the permission filter. A row that is
// missing and a row that exists but is not visible come back as the same
// not-found; existence must not leak.
func (s *Server) fetchVisible(p *auth.Principal, h permission.Handler, m models.IModel, id *datatypes.UUID) render.Renderer {
	q, err := h.BuildQuery(s.DB, p, auth.ActionGet)
	if err != nil {
		return webrender.NewErrForbidden(err)
	}

	if err := s.scopeToID(q, m, id).First(m).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return webrender.NewErrNotFound(err)
		}
		return webrender.NewErrDBError(err)
	}
	return nil
}

// actionContext resolves the course scope for a mutation on m, including the
// parent course for rows that hang off another entity. Parent lookups go
// through the parent's own permission filter, so an invisible parent reads
// as nonexistent here too.
func (s *Server) actionContext(p *auth.Principal, m models.IModel) (*permission.ActionContext, render.Renderer) {
	ctx := &permission.ActionContext{}

	if cs, ok := m.(models.CourseScoped); ok {
		ctx.CourseID = cs.GetCourseID()
	}

	switch v := m.(type) {
	case *models.CourseContent:
		// content type must live in the same course the content claims
		if v.CourseContentTypeID != nil {
			ct := models.CourseContentType{}
			typeHandler, _ := s.Registry.Handler("coursecontenttype")
			if r := s.fetchVisible(p, typeHandler, &ct, v.CourseContentTypeID); r != nil {
				return nil, r
			}
			ctx.ParentCourseID = ct.CourseID
		}
	case *models.Result:
		// results have no course id of their own; take it from the content
		if v.CourseContentID != nil {
			content := models.CourseContent{}
			contentHandler, _ := s.Registry.Handler("coursecontent")
			if r := s.fetchVisible(p, contentHandler, &content, v.CourseContentID); r != nil {
				return nil, r
			}
			ctx.CourseID = content.CourseID
			ctx.ParentCourseID = content.CourseID
		}
		// the attributed member row goes through its own visibility
		// filter; one the principal cannot see reads as nonexistent
		if v.CourseMemberID != nil {
			member := models.CourseMember{}
			memberHandler, _ := s.Registry.Handler("coursemember")
			if r := s.fetchVisible(p, memberHandler, &member, v.CourseMemberID); r != nil {
				return nil, r
			}
			if ctx.CourseID != nil && !member.CourseID.Equal(ctx.CourseID) {
				return nil, webrender.NewErrBadRequest(fmt.Errorf("course member %s is not in the content's course", v.CourseMemberID))
			}
			if !member.UserID.Equal(p.UserID) {
				ctx.ForeignAttribution = true
			}
		}
		if v.CourseSubmissionGroupID != nil {
			group := models.CourseSubmissionGroup{}
			if err := s.DB.Where(`"course_submission_group".id = ?`, v.CourseSubmissionGroupID).First(&group).Error; err != nil {
				if gorm.IsRecordNotFoundError(err) {
					return nil, webrender.NewErrNotFound(err)
				}
				return nil, webrender.NewErrDBError(err)
			}
			if v.CourseContentID == nil || !group.CourseContentID.Equal(v.CourseContentID) {
				return nil, webrender.NewErrBadRequest(fmt.Errorf("submission group %s does not belong to the content", v.CourseSubmissionGroupID))
			}
			var n int
			err := s.DB.Table("course_submission_group_member").
				Joins(`INNER JOIN "course_member" ON "course_member".id = "course_submission_group_member".course_member_id`).
				Where(`"course_submission_group_member".course_submission_group_id = ? AND "course_member".user_id = ?`,
					v.CourseSubmissionGroupID, p.UserID).
				Count(&n).Error
			if err != nil {
				return nil, webrender.NewErrDBError(err)
			}
			if n == 0 {
				ctx.ForeignAttribution = true
			}
		}
	}

	if ctx.CourseID == nil && ctx.ParentCourseID == nil && !ctx.ForeignAttribution {
		return nil, nil
	}
	return ctx, nil
}

// ListHandler handles e.g. GET /coursecontent
func (s *Server) ListHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		q, err := h.BuildQuery(s.DB, p, auth.ActionList)
		if err != nil {
			renderErr(c, webrender.NewErrForbidden(err))
			return
		}

		opts, err := urlparam.Parse(c.Request.URL.Query())
		if err != nil {
			renderErr(c, webrender.NewErrBadRequest(err))
			return
		}

		m, _ := s.Registry.NewModel(resource)
		if opts.Offset != nil {
			q = q.Offset(*opts.Offset)
		}
		if opts.Limit != nil {
			q = q.Limit(*opts.Limit)
		}
		if opts.Order != nil || opts.SortBy != nil {
			col, dir := "created_at", "asc"
			if opts.SortBy != nil {
				col = *opts.SortBy
			}
			if opts.Order != nil {
				dir = *opts.Order
			}
			q = q.Order(fmt.Sprintf(`"%s"."%s" %s`, s.tableName(m), col, dir))
		}

		slicePtr, _ := s.Registry.NewModelSlicePtr(resource)
		if err := q.Find(slicePtr).Error; err != nil {
			s.logError(c, resource, "list", err)
			renderErr(c, webrender.NewErrDBError(err))
			return
		}

		c.JSON(http.StatusOK, slicePtr)
	}
}

// GetOneHandler handles e.g. GET /coursecontent/:id
func (s *Server) GetOneHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		id, badReq := idParam(c)
		if badReq != nil {
			renderErr(c, badReq)
			return
		}

		m, _ := s.Registry.NewModel(resource)
		if r := s.fetchVisible(p, h, m, id); r != nil {
			renderErr(c, r)
			return
		}

		c.JSON(http.StatusOK, m)
	}
}

// CreateHandler handles e.g. POST /coursecontent
func (s *Server) CreateHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		m, _ := s.Registry.NewModel(resource)
		if err := c.ShouldBindJSON(m); err != nil {
			renderErr(c, webrender.NewErrParsingJSON(err))
			return
		}

		ctx, r := s.actionContext(p, m)
		if r != nil {
			renderErr(c, r)
			return
		}

		if !h.CanPerformAction(p, auth.ActionCreate, m.GetID(), ctx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionCreate)))
			return
		}

		if err := m.Validate(); err != nil {
			renderErr(c, webrender.NewErrValidation(err))
			return
		}

		err := transact.Transact(s.DB, func(tx *gorm.DB) error {
			return tx.Create(m).Error
		})
		if err != nil {
			s.logError(c, resource, "create", err)
			renderErr(c, webrender.NewErrDBError(err))
			return
		}

		c.JSON(http.StatusCreated, m)
	}
}

// UpdateHandler handles e.g. PUT /coursecontent/:id
func (s *Server) UpdateHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		id, badReq := idParam(c)
		if badReq != nil {
			renderErr(c, badReq)
			return
		}

		// the row must be visible before we talk about updating it
		existing, _ := s.Registry.NewModel(resource)
		if r := s.fetchVisible(p, h, existing, id); r != nil {
			renderErr(c, r)
			return
		}

		m, _ := s.Registry.NewModel(resource)
		if err := c.ShouldBindJSON(m); err != nil {
			renderErr(c, webrender.NewErrParsingJSON(err))
			return
		}
		m.SetID(id)

		// judged against the stored row's course first, then against
		// whatever the payload claims: a row may only move into a course
		// where the caller holds the role too
		ctx, r := s.actionContext(p, existing)
		if r != nil {
			renderErr(c, r)
			return
		}

		if !h.CanPerformAction(p, auth.ActionUpdate, id, ctx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionUpdate)))
			return
		}

		targetCtx, r := s.actionContext(p, m)
		if r != nil {
			renderErr(c, r)
			return
		}
		if targetCtx != nil && !h.CanPerformAction(p, auth.ActionUpdate, id, targetCtx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionUpdate)))
			return
		}

		if err := m.Validate(); err != nil {
			renderErr(c, webrender.NewErrValidation(err))
			return
		}

		err := transact.Transact(s.DB, func(tx *gorm.DB) error {
			return tx.Save(m).Error
		})
		if err != nil {
			s.logError(c, resource, "update", err)
			renderErr(c, webrender.NewErrDBError(err))
			return
		}

		c.JSON(http.StatusOK, m)
	}
}

// PatchHandler handles e.g. PATCH /coursecontent/:id with an RFC 6902 patch
func (s *Server) PatchHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		id, badReq := idParam(c)
		if badReq != nil {
			renderErr(c, badReq)
			return
		}

		existing, _ := s.Registry.NewModel(resource)
		if r := s.fetchVisible(p, h, existing, id); r != nil {
			renderErr(c, r)
			return
		}

		body, err := ioutil.ReadAll(c.Request.Body)
		if err != nil {
			renderErr(c, webrender.NewErrBadRequest(err))
			return
		}

		patch, err := jsonpatch.DecodePatch(body)
		if err != nil {
			renderErr(c, webrender.NewErrPatch(err))
			return
		}

		original, err := json.Marshal(existing)
		if err != nil {
			renderErr(c, webrender.NewErrInternalServerError(err))
			return
		}

		patched, err := patch.Apply(original)
		if err != nil {
			renderErr(c, webrender.NewErrPatch(err))
			return
		}

		m, _ := s.Registry.NewModel(resource)
		if err := json.Unmarshal(patched, m); err != nil {
			renderErr(c, webrender.NewErrPatch(err))
			return
		}
		m.SetID(id)

		ctx, r := s.actionContext(p, existing)
		if r != nil {
			renderErr(c, r)
			return
		}

		if !h.CanPerformAction(p, auth.ActionUpdate, id, ctx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionUpdate)))
			return
		}

		// a patch can rewrite courseId just as a PUT can
		targetCtx, r := s.actionContext(p, m)
		if r != nil {
			renderErr(c, r)
			return
		}
		if targetCtx != nil && !h.CanPerformAction(p, auth.ActionUpdate, id, targetCtx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionUpdate)))
			return
		}

		if err := m.Validate(); err != nil {
			renderErr(c, webrender.NewErrValidation(err))
			return
		}

		err = transact.Transact(s.DB, func(tx *gorm.DB) error {
			return tx.Save(m).Error
		})
		if err != nil {
			s.logError(c, resource, "patch", err)
			renderErr(c, webrender.NewErrDBError(err))
			return
		}

		c.JSON(http.StatusOK, m)
	}
}

// DeleteHandler handles e.g. DELETE /coursecontent/:id
func (s *Server) DeleteHandler(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, p, ok := s.handlerFor(c, resource)
		if !ok {
			return
		}

		id, badReq := idParam(c)
		if badReq != nil {
			renderErr(c, badReq)
			return
		}

		existing, _ := s.Registry.NewModel(resource)
		if r := s.fetchVisible(p, h, existing, id); r != nil {
			renderErr(c, r)
			return
		}

		ctx, r := s.actionContext(p, existing)
		if r != nil {
			renderErr(c, r)
			return
		}

		if !h.CanPerformAction(p, auth.ActionDelete, id, ctx) {
			renderErr(c, webrender.NewErrForbidden(permission.NewForbiddenError(resource, auth.ActionDelete)))
			return
		}

		err := transact.Transact(s.DB, func(tx *gorm.DB) error {
			return tx.Delete(existing).Error
		})
		if err != nil {
			s.logError(c, resource, "delete", err)
			renderErr(c, webrender.NewErrDBError(err))
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (s *Server) logError(c *gin.Context, resource, op string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithFields(logrus.Fields{
		"resource": resource,
		"op":       op,
		"path":     c.Request.URL.Path,
	}).WithError(err).Error("request failed")
}
