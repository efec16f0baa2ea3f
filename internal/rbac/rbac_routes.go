package rbac

import (
	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)
	}
}
