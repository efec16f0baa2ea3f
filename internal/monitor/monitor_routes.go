package monitor

import (
	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.GET("/active", middleware.RBACAuthorize(rbacService, "attendance_session", "read"), h.Active)
	}
}
