package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the decision endpoint; auth must already be applied
// to r.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.POST("/decide", handler.Decide)
	}
}
