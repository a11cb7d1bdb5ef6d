package middleware

import (
	"github.com/gin-gonic/gin"

	"financial-query-pipeline/internal/model"
	"financial-query-pipeline/pkg/response"
)

const (
	headerOrgID  = "X-Org-ID"
	headerUserID = "X-User-ID"
	headerRole   = "X-Role"

	ctxKeyScope = "request_scope"
)

// Scope extracts the acting org and user from request headers and stores
// them in the gin context. Requests without an org are rejected.
func (mw Middleware) Scope() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.GetHeader(headerOrgID)
		if orgID == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ctxKeyScope, model.Scope{
			OrgID:  orgID,
			UserID: c.GetHeader(headerUserID),
			Role:   c.GetHeader(headerRole),
		})
		c.Next()
	}
}

// ScopeFromContext returns the scope set by the Scope middleware.
// The zero value means the middleware did not run.
func ScopeFromContext(c *gin.Context) model.Scope {
	v, ok := c.Get(ctxKeyScope)
	if !ok {
		return model.Scope{}
	}
	sc, _ := v.(model.Scope)
	return sc
}
