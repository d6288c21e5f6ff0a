package suffix

import (
	"fmt"
	"strings"
)

type RuleType uint8

const (
	RuleNone RuleType = iota
	RuleNormal
	RuleWildcard
	RuleException
)

func (t RuleType) String() string {
	switch t {
	case RuleNormal:
		return "normal"
	case RuleWildcard:
		return "wildcard"
	case RuleException:
		return "exception"
	default:
		return "none"
	}
}

const (
	commentPrefix   = "//"
	exceptionPrefix = "!"
	wildcardPrefix  = "*."
)

// Rule is a single public suffix rule. Pattern never carries the `!` or `*.`
// marker, the rule kind lives in Type.
type Rule struct {
	Pattern string
	Type    RuleType
}

// ParseRule converts one ruleset line into a rule. Blank lines and comments
// report false.
func ParseRule(line string) (Rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return Rule{}, false
	}
	switch {
	case strings.HasPrefix(line, exceptionPrefix):
		return Rule{Pattern: strings.ToLower(line[len(exceptionPrefix):]), Type: RuleException}, true
	case strings.HasPrefix(line, wildcardPrefix):
		return Rule{Pattern: strings.ToLower(line[len(wildcardPrefix):]), Type: RuleWildcard}, true
	default:
		return Rule{Pattern: strings.ToLower(line), Type: RuleNormal}, true
	}
}

// RuleSet holds the parsed rules partitioned by type. It is never modified
// after construction.
type RuleSet struct {
	normal    map[string]struct{}
	wildcard  map[string]struct{}
	exception map[string]struct{}
}

// ParseRuleSet splits text on newlines and builds a RuleSet from it.
func ParseRuleSet(text string) (*RuleSet, error) {
	return BuildRuleSet(strings.Split(text, "\n"))
}

// BuildRuleSet builds a RuleSet from ruleset lines.
func BuildRuleSet(lines []string) (*RuleSet, error) {
	rs := &RuleSet{
		normal:    make(map[string]struct{}, len(lines)),
		wildcard:  make(map[string]struct{}),
		exception: make(map[string]struct{}),
	}
	for _, line := range lines {
		r, ok := ParseRule(line)
		if !ok {
			continue
		}
		rs.set(r.Type)[r.Pattern] = struct{}{}
	}
	if rs.Len() == 0 {
		return nil, fmt.Errorf("%w: ruleset contains no rules", ErrConfiguration)
	}
	return rs, nil
}

func (rs *RuleSet) set(t RuleType) map[string]struct{} {
	switch t {
	case RuleWildcard:
		return rs.wildcard
	case RuleException:
		return rs.exception
	default:
		return rs.normal
	}
}

// Contains reports whether pattern is registered under the given type.
func (rs *RuleSet) Contains(pattern string, t RuleType) bool {
	if t == RuleNone {
		return false
	}
	_, ok := rs.set(t)[pattern]
	return ok
}

// Count returns the number of rules of the given type.
func (rs *RuleSet) Count(t RuleType) int {
	if t == RuleNone {
		return 0
	}
	return len(rs.set(t))
}

func (rs *RuleSet) Len() int {
	return len(rs.normal) + len(rs.wildcard) + len(rs.exception)
}
