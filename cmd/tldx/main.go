package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/tldx/internal/config"
	"github.com/xxxsen/tldx/internal/hostname"
	"github.com/xxxsen/tldx/internal/metrics"
	"github.com/xxxsen/tldx/internal/parser"
	"github.com/xxxsen/tldx/internal/provider"
	"github.com/xxxsen/tldx/internal/reload"
	"github.com/xxxsen/tldx/internal/server"
	"github.com/xxxsen/tldx/internal/suffix"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml configuration file, serve mode")
	rules := flag.String("rules", "", "ruleset file or provider link, parse mode")
	concurrent := flag.Int("concurrency", 4, "parse mode workers")
	flag.Parse()

	if flag.NArg() > 0 {
		if err := runParse(os.Stdout, *rules, flag.Args(), *concurrent); err != nil {
			log.Fatalf("parse hosts failed, err:%v", err)
		}
		return
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// logger not initialised yet, fallback to stderr
		log.Fatalf("init config failed, err:%v", err)
	}
	logkit := logger.Init(cfg.Log.File, cfg.Log.Level, int(cfg.Log.FileCount),
		int(cfg.Log.FileSize), int(cfg.Log.KeepDays), cfg.Log.Console)
	defer logkit.Sync() //nolint:errcheck

	src, err := buildProvider(cfg.Ruleset)
	if err != nil {
		logkit.Fatal("build ruleset provider failed", zap.Error(err))
	}
	cache := suffix.Default()
	cache.OnBuild(recordRulesetMetrics)
	cache.SetProvider(provider.AsSource(src))
	if _, err := cache.Get(); err != nil {
		logkit.Fatal("load ruleset failed", zap.Error(err), zap.String("provider", src.Name()))
	}

	parser.ConfigureCache(parser.CacheOptions{Size: cfg.Cache.Size})
	p := parser.TryEnableParseCache(parser.NewEngineParser(cache), cache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Pprof.Enable {
		startDebugServer(ctx, cfg.Pprof.Bind, logkit)
	}
	go func() {
		rcfg := reload.Config{
			Interval:       time.Duration(cfg.Ruleset.ReloadInterval) * time.Second,
			InitialBackoff: time.Duration(cfg.Ruleset.InitialBackoff) * time.Second,
			MaxBackoff:     time.Duration(cfg.Ruleset.MaxBackoff) * time.Second,
		}
		_ = reload.Start(ctx, rcfg, cache)
	}()

	srv, err := server.New(
		server.WithBind(cfg.Bind),
		server.WithHTTPBind(cfg.HTTP.Bind),
		server.WithParser(p),
		server.WithTTL(cfg.TTL),
	)
	if err != nil {
		logkit.Fatal("initialise server failed", zap.Error(err))
	}
	logkit.Info("tldx listening", zap.String("dns", cfg.Bind), zap.String("http", cfg.HTTP.Bind),
		zap.String("parser", p.String()))
	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, syscall.EINTR) {
		logkit.Fatal("server error", zap.Error(err))
	}
	logkit.Info("shutdown complete")
}

func buildProvider(cfg config.RulesetConfig) (provider.IRuleProvider, error) {
	if strings.TrimSpace(cfg.Source) != "" {
		return provider.MakeProvider(cfg.Source)
	}
	return provider.MakeInlineProvider(cfg.Inline)
}

func recordRulesetMetrics(rs *suffix.RuleSet) {
	metrics.RulesetBuilds.Inc()
	for _, t := range []suffix.RuleType{suffix.RuleNormal, suffix.RuleWildcard, suffix.RuleException} {
		metrics.RulesLoaded.WithLabelValues(t.String()).Set(float64(rs.Count(t)))
	}
}

// ruleLink accepts either a provider link or a plain file path.
func ruleLink(rules string) string {
	if strings.Contains(rules, "://") {
		return rules
	}
	return "file://" + rules
}

func runParse(out io.Writer, rules string, hosts []string, concurrent int) error {
	if strings.TrimSpace(rules) == "" {
		return fmt.Errorf("-rules is required when hosts are given")
	}
	src, err := provider.MakeProvider(ruleLink(rules))
	if err != nil {
		return err
	}
	cache := suffix.NewCache(provider.AsSource(src))
	p := parser.NewEngineParser(cache)

	normalized := make([]string, len(hosts))
	for i, h := range hosts {
		normalized[i] = hostname.Normalize(h)
	}
	results, err := parser.ParseBatch(context.Background(), p, normalized, concurrent)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			if errors.Is(r.Err, suffix.ErrConfiguration) {
				return r.Err
			}
			metrics.ParseErrors.WithLabelValues(metrics.ErrorType(r.Err), metrics.SourceBatch).Inc()
			fmt.Fprintf(out, "%s\terror=%v\n", r.Host, r.Err)
			continue
		}
		metrics.ParseTotal.WithLabelValues(r.Parts.Rule.Type.String(), metrics.SourceBatch).Inc()
		fmt.Fprintf(out, "%s\ttld=%s\tsld=%s\tsub=%s\trule=%s\n",
			r.Host, r.Parts.TLD, r.Parts.SLD, r.Parts.Subdomain, r.Parts.Rule.String())
	}
	return nil
}
