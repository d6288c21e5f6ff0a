package main

import (
	"context"
	"strings"

	"github.com/xxxsen/tldx/internal/metrics"
	"go.uber.org/zap"
)

const defaultDebugBind = ":6060"

// startDebugServer exposes /metrics and /debug/pprof on bind.
func startDebugServer(ctx context.Context, bind string, logkit *zap.Logger) {
	addr := strings.TrimSpace(bind)
	if addr == "" {
		addr = defaultDebugBind
	}
	go func() {
		if err := metrics.StartServer(ctx, addr); err != nil {
			logkit.Error("debug server exited", zap.Error(err))
		}
	}()
	logkit.Debug("start debug server", zap.String("bind", addr))
}
