package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
bind: ":53"
ttl: 300
http:
  bind: ":8080"
ruleset:
  source: "file:///etc/tldx/public_suffix_list.dat?icann_only=true"
  reload_interval: 3600
cache:
  size: 500
log:
  level: debug
  console: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Bind != ":53" || cfg.HTTP.Bind != ":8080" {
		t.Fatalf("unexpected binds %q %q", cfg.Bind, cfg.HTTP.Bind)
	}
	if cfg.TTL != 300 {
		t.Fatalf("ttl = %d, want 300", cfg.TTL)
	}
	if cfg.Ruleset.ReloadInterval != 3600 || cfg.Cache.Size != 500 {
		t.Fatalf("unexpected ruleset/cache config %+v %+v", cfg.Ruleset, cfg.Cache)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Console {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
ruleset:
  inline:
    rules: ["com", "*.ck", "!www.ck"]
`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Bind != defaultBind {
		t.Fatalf("bind = %q, want default", cfg.Bind)
	}
	if cfg.Cache.Size != defaultCacheSize {
		t.Fatalf("cache size = %d, want default", cfg.Cache.Size)
	}
	if cfg.TTL != defaultTTL {
		t.Fatalf("ttl = %d, want default", cfg.TTL)
	}
	if cfg.Ruleset.Inline == nil {
		t.Fatalf("inline rules not decoded")
	}
}

func TestParseRequiresRuleset(t *testing.T) {
	if _, err := Parse([]byte(`bind: ":53"`)); err == nil {
		t.Fatalf("expected error without ruleset")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
