package routes

import (
	"github.com/gin-gonic/gin"
)

// AddRoutes binds the generic CRUD endpoints for every registered resource.
// Everything behind the bearer middleware; there is no anonymous surface.
func AddRoutes(r *gin.Engine, s *Server, jwtSecret []byte) {
	r.Use(BearerAuthMiddleware(jwtSecret, s.Logger))

	for _, resource := range s.Registry.Resources() {
		g := r.Group("/" + resource)
		{
			g.GET("", s.ListHandler(resource))
			g.POST("", s.CreateHandler(resource))
			g.GET("/:id", s.GetOneHandler(resource))
			g.PUT("/:id", s.UpdateHandler(resource))
			g.PATCH("/:id", s.PatchHandler(resource))
			g.DELETE("/:id", s.DeleteHandler(resource))
		}
	}
}
