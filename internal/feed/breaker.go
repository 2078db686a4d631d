package feed

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HristianD/trading-bot/internal/logger"
)

const (
	defaultBreakerThreshold = 5
	defaultBreakerCooldown  = time.Minute
)

// Guarded wraps a PriceSource with a failure-count circuit breaker so a dead
// upstream is not hammered on every tick. While the breaker is open, fetches
// are skipped outright until the cooldown elapses; the next real attempt
// either closes the breaker or re-opens it.
type Guarded struct {
	inner     PriceSource
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	open     bool
	openedAt time.Time
}

func Guard(inner PriceSource) *Guarded {
	return &Guarded{
		inner:     inner,
		threshold: defaultBreakerThreshold,
		cooldown:  defaultBreakerCooldown,
	}
}

func (g *Guarded) Name() string { return g.inner.Name() }

func (g *Guarded) FetchCurrent(ctx context.Context) (decimal.Decimal, bool) {
	if !g.allow() {
		return decimal.Zero, false
	}
	price, ok := g.inner.FetchCurrent(ctx)
	g.record(ok)
	return price, ok
}

func (g *Guarded) allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.open {
		return true
	}
	if time.Since(g.openedAt) > g.cooldown {
		// Probe: one request through, record() decides what happens next.
		return true
	}
	return false
}

func (g *Guarded) record(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		if g.open {
			logger.Infof("%s feed recovered, closing breaker", g.inner.Name())
		}
		g.open = false
		g.failures = 0
		return
	}
	g.failures++
	if g.open {
		// Failed probe, restart the cooldown window.
		g.openedAt = time.Now()
		return
	}
	if g.failures >= g.threshold {
		g.open = true
		g.openedAt = time.Now()
		logger.Warnf("%s feed failed %d times in a row, opening breaker for %s",
			g.inner.Name(), g.failures, g.cooldown)
	}
}
