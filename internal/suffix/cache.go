package suffix

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Provider returns the full ruleset text in public suffix list syntax.
type Provider func() (string, error)

// BuildHook is invoked after every successful ruleset build.
type BuildHook func(rs *RuleSet)

// Cache lazily builds a RuleSet from its provider and keeps it until Reset.
// Reads of an already built RuleSet take no lock.
type Cache struct {
	mu       sync.Mutex
	provider Provider
	hook     BuildHook
	rules    atomic.Pointer[RuleSet]
	gen      atomic.Uint64
}

// NewCache creates a cache reading from provider. provider may be nil and
// registered later with SetProvider.
func NewCache(provider Provider) *Cache {
	return &Cache{provider: provider}
}

// SetProvider registers the ruleset source and drops any built RuleSet.
func (c *Cache) SetProvider(p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = p
	c.rules.Store(nil)
}

// OnBuild registers a hook run after each build.
func (c *Cache) OnBuild(h BuildHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = h
}

// Get returns the cached RuleSet, building it on first use.
func (c *Cache) Get() (*RuleSet, error) {
	if rs := c.rules.Load(); rs != nil {
		return rs, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if rs := c.rules.Load(); rs != nil {
		return rs, nil
	}
	return c.buildLocked()
}

// Reload rebuilds the RuleSet from the provider. The current RuleSet stays in
// place until the new one is built, so a failing provider leaves lookups
// working on the last good rules.
func (c *Cache) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.buildLocked()
	return err
}

// buildLocked must be called with c.mu held.
func (c *Cache) buildLocked() (*RuleSet, error) {
	if c.provider == nil {
		return nil, ErrConfiguration
	}
	text, err := c.provider()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	rs, err := ParseRuleSet(text)
	if err != nil {
		return nil, err
	}
	c.rules.Store(rs)
	gen := c.gen.Add(1)
	logutil.GetLogger(context.Background()).Info("ruleset loaded",
		zap.Uint64("generation", gen),
		zap.Int("normal", rs.Count(RuleNormal)),
		zap.Int("wildcard", rs.Count(RuleWildcard)),
		zap.Int("exception", rs.Count(RuleException)),
	)
	if c.hook != nil {
		c.hook(rs)
	}
	return rs, nil
}

// Reset discards the cached RuleSet; the next Get rebuilds it.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules.Store(nil)
}

// Generation counts successful builds. It changes whenever a new RuleSet is
// installed.
func (c *Cache) Generation() uint64 {
	return c.gen.Load()
}

var defaultCache = NewCache(nil)

// Default returns the process-wide cache used by the package level helpers.
func Default() *Cache {
	return defaultCache
}

// SetProvider registers the ruleset source of the default cache.
func SetProvider(p Provider) {
	defaultCache.SetProvider(p)
}

// Reset drops the RuleSet held by the default cache.
func Reset() {
	defaultCache.Reset()
}
