package review

import (
	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	group := r.Group("/review")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/pending", middleware.RBACAuthorize(rbacService, "attendance_review", "read"), h.Pending)
		group.GET("/duplicates", middleware.RBACAuthorize(rbacService, "attendance_review", "read"), h.Duplicates)
		group.POST("/records/:id/approve", middleware.RBACAuthorize(rbacService, "attendance_review", "update"), h.Approve)
		group.POST("/records/:id/deny", middleware.RBACAuthorize(rbacService, "attendance_review", "update"), h.Deny)
	}
}
