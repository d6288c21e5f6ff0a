package parser

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/tldx/internal/metrics"
	"github.com/xxxsen/tldx/internal/suffix"
	"go.uber.org/zap"
)

// CacheOptions controls the parse result cache.
type CacheOptions struct {
	Size int64
}

var globalCacheOptions atomic.Value

func init() {
	ConfigureCache(CacheOptions{
		Size: 10000,
	})
}

// ConfigureCache sets the options used by TryEnableParseCache.
func ConfigureCache(opt CacheOptions) {
	if opt.Size < 0 {
		opt.Size = 0
	}
	globalCacheOptions.Store(opt)
}

// TryEnableParseCache puts an LRU of parse results in front of in when the
// configured size is positive. Entries computed against a RuleSet other than
// the one currently served by rules are treated as misses.
func TryEnableParseCache(in IDomainParser, rules suffix.RuleSource) IDomainParser {
	if in == nil {
		return nil
	}
	opt := globalCacheOptions.Load().(CacheOptions)
	if opt.Size <= 0 || rules == nil {
		return in
	}
	c, err := newCacheParser(in, rules, opt)
	if err != nil {
		logutil.GetLogger(context.Background()).Error("init parse cache failed, use raw parser", zap.Error(err))
		return in
	}
	return c
}

type cacheParser struct {
	next  IDomainParser
	rules suffix.RuleSource
	cache *lru.Cache[string, *cacheEntry]
}

type cacheEntry struct {
	rules *suffix.RuleSet
	parts suffix.Parts
}

func newCacheParser(next IDomainParser, rules suffix.RuleSource, opt CacheOptions) (*cacheParser, error) {
	c, err := lru.New[string, *cacheEntry](int(opt.Size))
	if err != nil {
		return nil, err
	}
	return &cacheParser{next: next, rules: rules, cache: c}, nil
}

func (c *cacheParser) String() string {
	return fmt.Sprintf("cache(%s)", c.next.String())
}

func (c *cacheParser) Parse(host string) (suffix.Parts, error) {
	rs, err := c.rules.Get()
	if err != nil {
		return c.next.Parse(host)
	}
	key := strings.ToLower(host)
	if ent, ok := c.cache.Get(key); ok && ent.rules == rs {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return ent.parts, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()
	parts, err := c.next.Parse(host)
	if err != nil {
		return suffix.Parts{}, err
	}
	// tagged with the ruleset read before parsing, a rebuild in between
	// leaves the entry stale
	c.cache.Add(key, &cacheEntry{rules: rs, parts: parts})
	return parts, nil
}
