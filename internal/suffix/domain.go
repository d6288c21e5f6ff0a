package suffix

import "strings"

const wwwPrefix = "www."

// RuleSource supplies the RuleSet used for lookups.
type RuleSource interface {
	Get() (*RuleSet, error)
}

// Parser decomposes hosts against the rules of its source.
type Parser struct {
	src RuleSource
}

func NewParser(src RuleSource) *Parser {
	return &Parser{src: src}
}

// Parse lowercases host, finds its best rule and splits it. Blank input
// fails with ErrFormat, a missing provider with ErrConfiguration.
func (p *Parser) Parse(host string) (Parts, error) {
	if strings.TrimSpace(host) == "" {
		return Parts{}, ErrFormat
	}
	rs, err := p.src.Get()
	if err != nil {
		return Parts{}, err
	}
	host = strings.ToLower(host)
	m, _ := rs.FindBestRule(host)
	return Split(host, m)
}

// TryParse is Parse without the error detail.
func (p *Parser) TryParse(host string) (Parts, bool) {
	parts, err := p.Parse(host)
	if err != nil {
		return Parts{}, false
	}
	return parts, true
}

// RegistrableDomain returns "sld.tld" for host, or whichever of the two is
// not empty.
func (p *Parser) RegistrableDomain(host string) (string, error) {
	parts, err := p.Parse(host)
	if err != nil {
		return "", err
	}
	return parts.RegistrableDomain(), nil
}

var defaultParser = NewParser(defaultCache)

func ParseDomain(host string) (Parts, error) {
	return defaultParser.Parse(host)
}

func TryParseDomain(host string) (Parts, bool) {
	return defaultParser.TryParse(host)
}

func RegistrableDomain(host string) (string, error) {
	return defaultParser.RegistrableDomain(host)
}

// StripWWW removes a literal leading "www." and nothing else.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, wwwPrefix)
}
