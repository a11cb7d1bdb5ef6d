package http

import (
	"github.com/gin-gonic/gin"

	"financial-query-pipeline/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Every route runs behind scope extraction and the per-org rate limit.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	plans := rg.Group("/plans")
	{
		plans.POST("", mw.Scope(), mw.RateLimit(), h.Generate)
		plans.GET("", mw.Scope(), mw.RateLimit(), h.List)
		plans.GET("/:id", mw.Scope(), mw.RateLimit(), h.Detail)
	}

	rg.POST("/query", mw.Scope(), mw.RateLimit(), h.Query)
}
