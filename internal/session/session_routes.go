package session

import (
	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("", middleware.RBACAuthorize(rbacService, "attendance_session", "create"), h.Open)
		sessions.POST("/:id/close", middleware.RBACAuthorize(rbacService, "attendance_session", "update"), h.Close)
		sessions.POST("/:id/reopen", middleware.RBACAuthorize(rbacService, "attendance_session", "update"), h.Reopen)
		sessions.GET("/:id", middleware.RBACAuthorize(rbacService, "attendance_session", "read"), h.Detail)
	}
}
