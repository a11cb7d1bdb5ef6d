package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"financial-query-pipeline/pkg/response"
)

// RateLimit enforces a per-org token bucket. Orgs are tracked in an LRU
// so an idle org's bucket eventually falls out of memory.
func (mw Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := ScopeFromContext(c)
		if sc.OrgID == "" {
			c.Next()
			return
		}

		limiter, ok := mw.limiters.Get(sc.OrgID)
		if !ok {
			limiter = rate.NewLimiter(mw.rps, mw.burst)
			mw.limiters.Add(sc.OrgID, limiter)
		}

		if !limiter.Allow() {
			mw.l.Warnf(c.Request.Context(), "middleware: org %s rate limited", sc.OrgID)
			c.JSON(http.StatusTooManyRequests, response.Resp{
				ErrorCode: http.StatusTooManyRequests,
				Message:   "too many requests, slow down",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
