package ledger

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/shared/apperror"
	"github.com/iworck/class-chronicle-sub001/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Roster(c *gin.Context) {
	resp, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Commit(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	actorID := c.GetString("user_id")
	role := actorRole(c.GetString("role"))

	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, err.Error())
		return
	}

	result, err := h.service.Commit(c.Request.Context(), c.Param("id"), actorID, role, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Partial failures still return the full result so the operator can
	// re-attempt only the failed subset.
	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(result); marshalErr == nil {
				entry, _ := json.Marshal(middleware.CachedResponse{Status: status, Data: payload})
				_ = h.rdb.Set(c.Request.Context(), ck, entry, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, status, result, nil)
}

func actorRole(claim string) record.ActorRole {
	role := record.ActorRole(claim)
	if !role.Valid() {
		return record.RoleProfessor
	}
	return role
}
