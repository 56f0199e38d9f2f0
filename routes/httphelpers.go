package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-chi/render"

	"github.com/lektor-lms/lektor/libs/datatypes"
	"github.com/lektor-lms/lektor/libs/webrender"
)

// renderErr writes an error renderer through chi's render onto gin's
// writer.
func renderErr(c *gin.Context, renderer render.Renderer) {
	if err := render.Render(c.Writer, c.Request, renderer); err != nil {
		c.Status(500)
	}
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (*datatypes.UUID, render.Renderer) {
	id, err := datatypes.NewUUIDFromString(c.Param("id"))
	if err != nil {
		return nil, webrender.NewErrBadRequest(err)
	}
	return id, nil
}
