package provider

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xxxsen/common/utils"
)

func init() {
	Register("inline", createInlineProvider)
}

type inlineConfig struct {
	Rules []string `json:"rules"`
}

type inlineProvider struct {
	rules []string
}

// createInlineProvider reads rules from the link itself, one rule per
// "rule" query value: inline://?rule=com&rule=*.ck
func createInlineProvider(uri *url.URL, _ *Params) (IRuleProvider, error) {
	return NewInlineProvider(uri.Query()["rule"]), nil
}

// NewInlineProvider serves a fixed list of rule lines.
func NewInlineProvider(rules []string) IRuleProvider {
	return &inlineProvider{rules: append([]string(nil), rules...)}
}

// MakeInlineProvider builds an inline provider from loosely typed config data.
func MakeInlineProvider(args interface{}) (IRuleProvider, error) {
	c := &inlineConfig{}
	if err := utils.ConvStructJson(args, c); err != nil {
		return nil, fmt.Errorf("decode inline rules: %w", err)
	}
	return NewInlineProvider(c.Rules), nil
}

func (p *inlineProvider) Name() string {
	return fmt.Sprintf("inline(%d)", len(p.rules))
}

func (p *inlineProvider) Provide() (string, error) {
	if len(p.rules) == 0 {
		return "", fmt.Errorf("inline provider has no rules")
	}
	return strings.Join(p.rules, "\n"), nil
}
