package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	planHTTP "financial-query-pipeline/internal/plan/delivery/http"
)

// setupPlanDomain registers the plan domain routes.
//
// Pattern to follow when adding a new domain:
//  1. Construct the UseCase in cmd and pass it through Config
//  2. Create HTTP Handler: h := mydomainHTTP.New(srv.l, uc)
//  3. Register Routes:     mydomainHTTP.RegisterRoutes(api, h, srv.mw)
func (srv HTTPServer) setupPlanDomain(ctx context.Context, api *gin.RouterGroup) error {
	h := planHTTP.New(srv.l, srv.planUC)
	planHTTP.RegisterRoutes(api, h, srv.mw)

	srv.l.Infof(ctx, "Plan domain registered")
	return nil
}
