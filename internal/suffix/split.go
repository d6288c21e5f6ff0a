package suffix

import "strings"

// Parts is the decomposition of a host. Every field is empty or a substring
// of the lowercased host.
type Parts struct {
	TLD       string
	SLD       string
	Subdomain string
	Rule      Match
}

// RegistrableDomain joins SLD and TLD, dropping whichever is empty.
func (p Parts) RegistrableDomain() string {
	return joinLabels(p.SLD, p.TLD)
}

// Host rebuilds the host from its parts.
func (p Parts) Host() string {
	return joinLabels(p.Subdomain, p.SLD, p.TLD)
}

func joinLabels(items ...string) string {
	var sb strings.Builder
	for _, item := range items {
		if item == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(item)
	}
	return sb.String()
}

// Split decomposes host according to the matched rule. host must already be
// lowercased; a zero Match selects the fallback heuristics.
func Split(host string, m Match) (Parts, error) {
	if strings.TrimSpace(host) == "" {
		return Parts{}, ErrFormat
	}
	if !m.Found() {
		return splitUnmatched(host), nil
	}

	var tld, rest string
	switch m.Type {
	case RuleNormal:
		tld, rest = cutSuffix(host, m.Pattern)
	case RuleWildcard:
		tld, rest = cutSuffix(host, m.Pattern)
		if rest != "" {
			// the label covered by the wildcard belongs to the tld
			idx := strings.LastIndexByte(rest, '.')
			tld = host[idx+1:]
			if idx < 0 {
				rest = ""
			} else {
				rest = host[:idx]
			}
		}
	case RuleException:
		idx := strings.LastIndexByte(host, '.')
		if idx < 0 {
			tld = host
		} else {
			tld, rest = host[idx+1:], host[:idx]
		}
	}

	p := Parts{TLD: tld, Rule: m}
	p.SLD, p.Subdomain = splitRemainder(rest)
	return p, nil
}

// cutSuffix splits host into the pattern-length suffix and everything before
// the separating dot.
func cutSuffix(host, pattern string) (string, string) {
	if len(pattern) >= len(host) {
		return host, ""
	}
	idx := len(host) - len(pattern) - 1
	return host[idx+1:], host[:idx]
}

func splitRemainder(rest string) (sld, sub string) {
	if rest == "" {
		return "", ""
	}
	idx := strings.LastIndexByte(rest, '.')
	if idx < 0 {
		return rest, ""
	}
	return rest[idx+1:], rest[:idx]
}

func splitUnmatched(host string) Parts {
	last := strings.LastIndexByte(host, '.')
	if last < 0 {
		return Parts{SLD: host}
	}
	// only the first character of the last label is checked, not a full ip parse
	if last+1 < len(host) && isDigit(host[last+1]) {
		return Parts{SLD: host}
	}
	p := Parts{TLD: host[last+1:]}
	prev := strings.LastIndexByte(host[:last], '.')
	if prev < 0 {
		p.SLD = host[:last]
		return p
	}
	p.Subdomain = host[:prev]
	p.SLD = host[prev+1 : last]
	return p
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
