package parser

import (
	"github.com/xxxsen/tldx/internal/suffix"
)

// IDomainParser decomposes hosts into their public suffix parts.
type IDomainParser interface {
	String() string
	Parse(host string) (suffix.Parts, error)
}

type engineParser struct {
	p *suffix.Parser
}

// NewEngineParser decomposes hosts against the rules held by cache.
func NewEngineParser(cache *suffix.Cache) IDomainParser {
	return &engineParser{p: suffix.NewParser(cache)}
}

func (e *engineParser) String() string {
	return "engine"
}

func (e *engineParser) Parse(host string) (suffix.Parts, error) {
	return e.p.Parse(host)
}
