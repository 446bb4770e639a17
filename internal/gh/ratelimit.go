package gh

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/go-github/v72/github"
)

// DefaultRateThreshold is the remaining-call floor below which the guard
// sleeps until the quota resets.
const DefaultRateThreshold = 10

// Budget is a point-in-time snapshot of the remaining API call quota.
type Budget struct {
	Remaining int
	ResetAt   time.Time
}

// RateGuard proactively throttles GitHub API usage. The check is advisory:
// concurrent deliveries may race on the snapshot, and GitHub's own 429
// responses remain the authoritative backstop.
type RateGuard struct {
	client    *github.Client
	threshold int
	logger    *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateGuard creates a guard around the session's API quota.
func NewRateGuard(session *Session, logger *slog.Logger) *RateGuard {
	return &RateGuard{
		client:    session.Client(),
		threshold: DefaultRateThreshold,
		logger:    logger.With("component", "rateguard"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Wait blocks until the call budget allows another API call. Failures to
// fetch the budget are logged and treated as permission to proceed.
func (g *RateGuard) Wait(ctx context.Context) error {
	limits, _, err := g.client.RateLimit.Get(ctx)
	if err != nil {
		g.logger.Warn("failed to fetch rate limit, proceeding", "error", err)
		return nil
	}

	core := limits.GetCore()
	if core == nil {
		return nil
	}

	budget := Budget{
		Remaining: core.Remaining,
		ResetAt:   core.Reset.Time,
	}

	delay := ThrottleDelay(budget, g.now(), g.threshold)
	if delay <= 0 {
		g.logger.Debug("rate budget ok", "remaining", budget.Remaining)
		return nil
	}

	g.logger.Warn("rate limit nearly exceeded, throttling",
		"remaining", budget.Remaining,
		"reset_at", budget.ResetAt,
		"sleep", delay,
	)
	return g.sleep(ctx, delay)
}

// ThrottleDelay returns how long to sleep before the next API call given the
// current budget. Zero means no throttling is needed.
func ThrottleDelay(budget Budget, now time.Time, threshold int) time.Duration {
	if budget.Remaining >= threshold {
		return 0
	}
	delay := budget.ResetAt.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
