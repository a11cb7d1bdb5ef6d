package middleware

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"financial-query-pipeline/pkg/log"
)

const limiterCacheSize = 1024

// Middleware bundles the request middlewares shared by every domain.
type Middleware struct {
	l        log.Logger
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func New(l log.Logger, rps float64, burst int) Middleware {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return Middleware{
		l:        l,
		limiters: expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, 0),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}
