package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xxxsen/tldx/internal/suffix"
)

var (
	// ParseTotal counts successful decompositions by the type of the matched rule
	ParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tldx_parse_total",
			Help: "Total number of hosts decomposed, by matched rule type",
		},
		[]string{"rule_type", "source"},
	)

	// ParseErrors counts failed decompositions
	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tldx_parse_errors_total",
			Help: "Total number of failed decompositions by error type",
		},
		[]string{"type", "source"},
	)

	// RulesetBuilds counts ruleset (re)builds
	RulesetBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tldx_ruleset_builds_total",
			Help: "Total number of ruleset builds",
		},
	)

	// RulesLoaded tracks the size of the active ruleset
	RulesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tldx_rules_loaded",
			Help: "Number of rules in the active ruleset by type",
		},
		[]string{"rule_type"},
	)

	// CacheLookups counts parse cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tldx_parse_cache_lookups_total",
			Help: "Parse cache lookups by result",
		},
		[]string{"result"},
	)
)

// Error type constants
const (
	ErrorTypeFormat        = "format"
	ErrorTypeConfiguration = "configuration"
	ErrorTypeOther         = "other"
)

// ErrorType maps a parse error to its ParseErrors label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, suffix.ErrFormat):
		return ErrorTypeFormat
	case errors.Is(err, suffix.ErrConfiguration):
		return ErrorTypeConfiguration
	default:
		return ErrorTypeOther
	}
}

// Source label values
const (
	SourceDNS   = "dns"
	SourceHTTP  = "http"
	SourceBatch = "batch"
)
