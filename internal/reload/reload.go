package reload

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// IRuleCache is the part of the ruleset cache the reloader drives.
type IRuleCache interface {
	Reload() error
	Generation() uint64
}

type Config struct {
	Interval       time.Duration // base reload interval
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Start reloads the ruleset every interval until ctx is done. A failed
// rebuild is retried with exponential backoff while the cache keeps serving
// the last good ruleset.
func Start(ctx context.Context, cfg Config, cache IRuleCache) error {
	if cfg.Interval <= 0 {
		return nil
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	logger := logutil.GetLogger(ctx)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var failures int
	for {
		select {
		case <-ctx.Done():
			logger.Info("ruleset reloader stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-ticker.C:
		}
		for {
			err := reloadOnce(cache)
			if err == nil {
				break
			}
			failures++
			backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, failures)
			logger.Error("reload ruleset failed",
				zap.Int("attempt", failures), zap.Duration("backoff", backoff), zap.Error(err))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				logger.Info("ruleset reloader stopped during backoff", zap.Error(ctx.Err()))
				return ctx.Err()
			case <-timer.C:
			}
		}
		if failures > 0 {
			logger.Info("ruleset reload recovered", zap.Int("failures", failures))
		}
		failures = 0
		logger.Debug("ruleset reloaded", zap.Uint64("generation", cache.Generation()))
	}
}

func reloadOnce(cache IRuleCache) error {
	return cache.Reload()
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	if failures < 1 {
		failures = 1
	}
	// clamp in float space, the product overflows int64 for large failure counts
	backoff := max
	if scaled := float64(initial) * math.Pow(2, float64(failures-1)); scaled < float64(max) {
		backoff = time.Duration(scaled)
	}
	// +-20% jitter
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))
	return backoff + jitter
}
