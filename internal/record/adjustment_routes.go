package record

import (
	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
)

func RegisterAdjustmentRoutes(r *gin.RouterGroup, h *AdjustmentHandler, rbacService rbac.Service) {
	group := r.Group("/adjustments")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", middleware.RBACAuthorize(rbacService, "attendance_record", "read"), h.List)
	}
}
