package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CachedResponse is the envelope stored under the idempotency cache key. The
// status is kept so a replayed partial failure still answers 207.
type CachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the cached response for a repeated Idempotency-Key and
// locks concurrent duplicates out while the first request is in flight. The
// roster commit endpoint relies on this: a double-submitted batch must not
// write twice.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached CachedResponse
			status := http.StatusOK
			if json.Unmarshal([]byte(val), &cached) == nil && cached.Status != 0 {
				status = cached.Status
			} else {
				cached.Data = json.RawMessage(val)
			}
			var data any
			json.Unmarshal(cached.Data, &data)
			c.AbortWithStatusJSON(status, gin.H{"ok": true, "data": data})
			return
		}

		// Short lock expiry so a crashed server never wedges the key.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Sua requisição ainda está sendo processada, aguarde um momento.",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
