package suffix

import "strings"

// Match is the rule selected for a host. The zero value means no rule matched.
type Match struct {
	Pattern string
	Type    RuleType
}

func (m Match) Found() bool {
	return m.Type != RuleNone
}

func (m Match) String() string {
	switch m.Type {
	case RuleWildcard:
		return wildcardPrefix + m.Pattern
	case RuleException:
		return exceptionPrefix + m.Pattern
	default:
		return m.Pattern
	}
}

// matchOrder is the order in which the sets are checked for one candidate.
// The first hit wins when a pattern is registered under several types.
var matchOrder = [...]RuleType{RuleException, RuleWildcard, RuleNormal}

// FindBestRule returns the rule with the most labels matching host. Candidates
// are the right-anchored label suffixes of host: "uk", "co.uk",
// "example.co.uk" and so on. host must already be lowercased.
func (rs *RuleSet) FindBestRule(host string) (Match, bool) {
	var best Match
	end := len(host)
	for end >= 0 {
		start := strings.LastIndexByte(host[:end], '.') + 1
		if m, ok := rs.lookup(host[start:]); ok {
			// each candidate is longer than the previous one
			best = m
		}
		if start == 0 {
			break
		}
		end = start - 1
	}
	return best, best.Found()
}

func (rs *RuleSet) lookup(candidate string) (Match, bool) {
	for _, t := range matchOrder {
		if rs.Contains(candidate, t) {
			return Match{Pattern: candidate, Type: t}, true
		}
	}
	return Match{}, false
}
