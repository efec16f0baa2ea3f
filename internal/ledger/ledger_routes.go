package ledger

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.GET("/:id/roster", middleware.RBACAuthorize(rbacService, "attendance_record", "read"), h.Roster)
		sessions.POST("/:id/roster/commit",
			middleware.RBACAuthorize(rbacService, "attendance_record", "update"),
			middleware.Idempotency(rdb),
			h.Commit,
		)
	}
}
