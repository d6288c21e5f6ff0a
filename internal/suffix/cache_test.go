package suffix

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func countingProvider(text string, calls *int32) Provider {
	return func() (string, error) {
		atomic.AddInt32(calls, 1)
		return text, nil
	}
}

func TestCacheBuildsOnce(t *testing.T) {
	var calls int32
	c := NewCache(countingProvider(testRules, &calls))

	var wg sync.WaitGroup
	results := make([]*RuleSet, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs, err := c.Get()
			if err != nil {
				t.Errorf("Get error: %v", err)
				return
			}
			results[i] = rs
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("provider called %d times, want 1", calls)
	}
	for i, rs := range results {
		if rs != results[0] {
			t.Fatalf("result %d is a different instance", i)
		}
	}
	if c.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", c.Generation())
	}
}

func TestCacheReset(t *testing.T) {
	var calls int32
	c := NewCache(countingProvider(testRules, &calls))
	first, err := c.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	c.Reset()
	second, err := c.Get()
	if err != nil {
		t.Fatalf("Get after reset error: %v", err)
	}
	if first == second {
		t.Fatalf("expected a rebuilt ruleset after reset")
	}
	if calls != 2 {
		t.Fatalf("provider called %d times, want 2", calls)
	}
	if c.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", c.Generation())
	}
}

func TestCacheNoProvider(t *testing.T) {
	c := NewCache(nil)
	if _, err := c.Get(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	c.SetProvider(func() (string, error) { return "com", nil })
	if _, err := c.Get(); err != nil {
		t.Fatalf("Get after SetProvider error: %v", err)
	}
}

func TestCacheProviderFailure(t *testing.T) {
	cause := errors.New("disk on fire")
	c := NewCache(func() (string, error) { return "", cause })
	_, err := c.Get()
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want ErrConfiguration wrapping cause", err)
	}
}

func TestCacheOnBuild(t *testing.T) {
	c := NewCache(func() (string, error) { return testRules, nil })
	var seen *RuleSet
	c.OnBuild(func(rs *RuleSet) { seen = rs })
	rs, err := c.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if seen != rs {
		t.Fatalf("build hook not invoked with the new ruleset")
	}
}

func TestCacheConcurrentResetAndGet(t *testing.T) {
	c := NewCache(func() (string, error) { return testRules, nil })
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rs, err := c.Get()
				if err != nil || rs == nil || rs.Len() != 8 {
					t.Errorf("unexpected ruleset: %v, %v", rs, err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Reset()
			}
		}()
	}
	wg.Wait()
}

func TestCacheReloadKeepsRulesOnFailure(t *testing.T) {
	var fail atomic.Bool
	c := NewCache(func() (string, error) {
		if fail.Load() {
			return "", errors.New("source unavailable")
		}
		return testRules, nil
	})
	before, err := c.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	fail.Store(true)
	if err := c.Reload(); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Reload error = %v, want ErrConfiguration", err)
	}
	after, err := c.Get()
	if err != nil {
		t.Fatalf("Get after failed reload: %v", err)
	}
	if after != before {
		t.Fatalf("failed reload replaced the ruleset")
	}
	if c.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", c.Generation())
	}
	parts, err := NewParser(c).Parse("www.example.co.uk")
	if err != nil || parts.TLD != "co.uk" {
		t.Fatalf("parse after failed reload: %+v %v", parts, err)
	}
}

func TestCacheReloadSwapsRules(t *testing.T) {
	text := "com"
	c := NewCache(func() (string, error) { return text, nil })
	if _, err := c.Get(); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	var hooked int
	c.OnBuild(func(*RuleSet) { hooked++ })

	text = "com\nco.uk"
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	rs, _ := c.Get()
	if !rs.Contains("co.uk", RuleNormal) {
		t.Fatalf("reloaded ruleset missing co.uk")
	}
	if c.Generation() != 2 || hooked != 1 {
		t.Fatalf("generation = %d hooks = %d, want 2 and 1", c.Generation(), hooked)
	}
}
