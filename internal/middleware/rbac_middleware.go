package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iworck/class-chronicle-sub001/internal/domain"
)

// RBACService is a local interface: any package with an Enforce method fits,
// which keeps this middleware free of a dependency on the rbac package.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok1 := c.Get("user_id")
		institutionID, ok2 := c.Get("institution_id")

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			UserID:        userID.(string),
			InstitutionID: institutionID.(string),
			Resource:      resource,
			Action:        action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "Você não tem permissão para acessar este recurso",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
