package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financial-query-pipeline/pkg/llmprovider"
	"financial-query-pipeline/pkg/metrics"
)

// DefaultCooldown is how long the AI path stays closed after an upstream
// rate-limit error.
const DefaultCooldown = 60 * time.Second

// ErrCoolingDown reports that the AI path is skipped because a recent
// upstream rate limit opened the cooldown window.
var ErrCoolingDown = fmt.Errorf("ai path cooling down: %w", llmprovider.ErrProviderRateLimited)

// RateLimitState is the shared circuit-breaker timestamp. Writers race
// benignly: last writer wins, and the window simply extends. There is no
// explicit reset; the state expires once the cooldown elapses.
type RateLimitState struct {
	mu       sync.Mutex
	last     time.Time
	cooldown time.Duration
	now      func() time.Time
}

func NewRateLimitState(cooldown time.Duration) *RateLimitState {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &RateLimitState{cooldown: cooldown, now: time.Now}
}

// Trip records an upstream rate-limit detection.
func (s *RateLimitState) Trip() {
	s.mu.Lock()
	s.last = s.now()
	s.mu.Unlock()
	metrics.RateLimitTripsTotal.Inc()
}

// Active reports whether the cooldown window is still open.
func (s *RateLimitState) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last.IsZero() {
		return false
	}
	return s.now().Sub(s.last) < s.cooldown
}

// SetClock overrides the time source. Test hook.
func (s *RateLimitState) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// GuardedCaller wraps an LLM caller with the circuit breaker: inside the
// cooldown window it refuses without touching the network, and every
// detected rate-limit error re-trips the state.
type GuardedCaller struct {
	inner llmprovider.Caller
	state *RateLimitState
}

var _ llmprovider.Caller = (*GuardedCaller)(nil)

func NewGuardedCaller(inner llmprovider.Caller, state *RateLimitState) *GuardedCaller {
	return &GuardedCaller{inner: inner, state: state}
}

func (g *GuardedCaller) Call(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if g.state.Active() {
		return nil, ErrCoolingDown
	}
	resp, err := g.inner.Call(ctx, req)
	if err != nil && llmprovider.IsRateLimited(err) {
		g.state.Trip()
	}
	return resp, err
}
