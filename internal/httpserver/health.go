package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financial-query-pipeline/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Financial Query Pipeline API"
	HealthVersion = "1.0.0"
	ServiceName   = "financial-query-pipeline"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready only when the backing stores respond.
// @Summary Readiness Check
// @Description Check if the API is ready to serve traffic
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} map[string]interface{} "A dependency is down"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	deps := gin.H{}
	ready := true

	if srv.postgresDB != nil {
		if err := srv.postgresDB.PingContext(ctx); err != nil {
			deps["postgres"] = err.Error()
			ready = false
		} else {
			deps["postgres"] = "ok"
		}
	}
	if srv.redisClient != nil {
		if err := srv.redisClient.Ping(ctx).Err(); err != nil {
			deps["redis"] = err.Error()
			ready = false
		} else {
			deps["redis"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not ready",
			"service":      ServiceName,
			"dependencies": deps,
		})
		return
	}

	response.OK(c, gin.H{
		"status":       "ready",
		"message":      HealthMessage,
		"version":      HealthVersion,
		"service":      ServiceName,
		"dependencies": deps,
	})
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}
