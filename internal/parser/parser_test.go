package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/xxxsen/tldx/internal/suffix"
)

const testRules = "com\nco.uk\n*.ck\n!www.ck\n"

type countingParser struct {
	next  IDomainParser
	count int
}

func (c *countingParser) String() string { return "counting" }
func (c *countingParser) Parse(host string) (suffix.Parts, error) {
	c.count++
	return c.next.Parse(host)
}

func newRuleCache(text string) *suffix.Cache {
	return suffix.NewCache(func() (string, error) { return text, nil })
}

func TestEngineParser(t *testing.T) {
	p := NewEngineParser(newRuleCache(testRules))
	parts, err := p.Parse("www.example.co.uk")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if parts.TLD != "co.uk" || parts.SLD != "example" || parts.Subdomain != "www" {
		t.Fatalf("unexpected parts %+v", parts)
	}
}

func TestCacheParserHit(t *testing.T) {
	ConfigureCache(CacheOptions{Size: 10})
	defer ConfigureCache(CacheOptions{Size: 10000})

	rules := newRuleCache(testRules)
	base := &countingParser{next: NewEngineParser(rules)}
	wrapped := TryEnableParseCache(base, rules)
	if wrapped.String() != "cache(counting)" {
		t.Fatalf("unexpected name %q", wrapped.String())
	}

	for i := 0; i < 3; i++ {
		if _, err := wrapped.Parse("www.example.com"); err != nil {
			t.Fatalf("Parse error: %v", err)
		}
	}
	if base.count != 1 {
		t.Fatalf("expected one underlying parse, got %d", base.count)
	}
}

func TestCacheParserInvalidatedByRebuild(t *testing.T) {
	ConfigureCache(CacheOptions{Size: 10})
	defer ConfigureCache(CacheOptions{Size: 10000})

	rules := newRuleCache(testRules)
	base := &countingParser{next: NewEngineParser(rules)}
	wrapped := TryEnableParseCache(base, rules)

	if _, err := wrapped.Parse("example.com"); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	rules.Reset()
	if _, err := rules.Get(); err != nil {
		t.Fatalf("rebuild error: %v", err)
	}
	if _, err := wrapped.Parse("example.com"); err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if base.count != 2 {
		t.Fatalf("expected a fresh parse after rebuild, got %d", base.count)
	}
}

func TestCacheParserSkipsErrors(t *testing.T) {
	ConfigureCache(CacheOptions{Size: 10})
	defer ConfigureCache(CacheOptions{Size: 10000})

	rules := newRuleCache(testRules)
	base := &countingParser{next: NewEngineParser(rules)}
	wrapped := TryEnableParseCache(base, rules)
	for i := 0; i < 2; i++ {
		if _, err := wrapped.Parse("  "); !errors.Is(err, suffix.ErrFormat) {
			t.Fatalf("err = %v, want ErrFormat", err)
		}
	}
	if base.count != 2 {
		t.Fatalf("errors must not be cached, count=%d", base.count)
	}
}

func TestCacheDisabled(t *testing.T) {
	ConfigureCache(CacheOptions{Size: 0})
	defer ConfigureCache(CacheOptions{Size: 10000})

	base := NewEngineParser(newRuleCache(testRules))
	if got := TryEnableParseCache(base, nil); got != base {
		t.Fatalf("expected raw parser when cache disabled")
	}
}

func TestParseBatch(t *testing.T) {
	p := NewEngineParser(newRuleCache(testRules))
	hosts := []string{"a.example.com", "", "example.ck", "www.ck", "10.0.0.1"}
	results, err := ParseBatch(context.Background(), p, hosts, 3)
	if err != nil {
		t.Fatalf("ParseBatch error: %v", err)
	}
	if len(results) != len(hosts) {
		t.Fatalf("got %d results, want %d", len(results), len(hosts))
	}
	for i, r := range results {
		if r.Host != hosts[i] {
			t.Fatalf("result %d host = %q, want %q", i, r.Host, hosts[i])
		}
	}
	if !errors.Is(results[1].Err, suffix.ErrFormat) {
		t.Fatalf("blank host err = %v", results[1].Err)
	}
	if results[2].Parts.TLD != "example.ck" || results[3].Parts.SLD != "www" || results[4].Parts.SLD != "10.0.0.1" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestParseBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewEngineParser(newRuleCache(testRules))
	if _, err := ParseBatch(ctx, p, []string{"example.com"}, 1); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
